package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/you/eduauthsvc/domain"
	"github.com/you/eduauthsvc/internal/config"
	"github.com/you/eduauthsvc/internal/infrastructure/auth"
	"github.com/you/eduauthsvc/internal/infrastructure/database"
	"github.com/you/eduauthsvc/internal/infrastructure/notifications"
	"github.com/you/eduauthsvc/internal/infrastructure/repositories"
	"github.com/you/eduauthsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	UserRepo    domain.UserRepository
	OTPRepo     domain.OTPRepository
	CatalogRepo domain.CatalogRepository

	// Services
	Hasher    domain.Hasher
	TokenSvc  domain.TokenService
	EmailSvc  domain.EmailService
	Templates domain.EmailTemplateBuilder
	OTPSvc    domain.OTPService
	AuthSvc   domain.AuthService
	PolicySvc domain.PolicyService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	c.DB = gdb

	cas, err := auth.NewCasbinService(gdb, cfg.CasbinModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init casbin: %w", err)
	}
	c.Casbin = cas

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.RedisClient = rdb

	c.UserRepo = repositories.NewUserRepository(gdb)
	c.OTPRepo = repositories.NewOTPRepository(gdb)
	c.CatalogRepo = repositories.NewCatalogRepository(gdb)

	c.Hasher = auth.NewHasher()
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	c.EmailSvc = notifications.NewSMTPEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPFromName)

	tpl, err := notifications.NewTemplateBuilder()
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	c.Templates = tpl

	c.OTPSvc = services.NewOTPService(c.OTPRepo, c.Hasher, rdb, services.OTPConfig{
		Length:       cfg.OTPLength,
		TTL:          cfg.OTPTTL,
		ResendWindow: cfg.OTPResendWindow,
	})

	c.AuthSvc = services.NewAuthService(c.UserRepo, c.CatalogRepo, c.Hasher, c.TokenSvc, c.OTPSvc, c.EmailSvc, c.Templates, services.AuthConfig{
		AccessTTL:           cfg.AccessTTL,
		RefreshTTL:          cfg.RefreshTTL,
		ResetTTL:            cfg.ResetTTL,
		OTPTTL:              cfg.OTPTTL,
		UsernameMaxAttempts: cfg.UsernameMaxAttempts,
	})

	c.PolicySvc = services.NewPolicyService(cas.E)

	return c, nil
}

// Close releases the container's long-lived connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			return err
		}
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
