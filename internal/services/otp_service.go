package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/eduauthsvc/domain"
)

// OTPServiceImpl implements domain.OTPService. Codes are persisted as
// bcrypt hashes in the relational store (append-only, single-use); Redis
// only backs the resend throttle.
type OTPServiceImpl struct {
	otpRepo     domain.OTPRepository
	hasher      domain.Hasher
	redisClient *redis.Client
	config      OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	ResendWindow time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(otpRepo domain.OTPRepository, hasher domain.Hasher, redisClient *redis.Client, config OTPConfig) domain.OTPService {
	if config.Length <= 0 {
		config.Length = 6
	}
	if config.TTL <= 0 {
		config.TTL = 10 * time.Minute
	}
	return &OTPServiceImpl{
		otpRepo:     otpRepo,
		hasher:      hasher,
		redisClient: redisClient,
		config:      config,
	}
}

// Issue implements domain.OTPService. It returns the plaintext code for
// delivery; only the hash is persisted, and the plaintext is never logged.
func (s *OTPServiceImpl) Issue(ctx context.Context, userID uint, email string) (string, error) {
	if canResend, waitTime, err := s.CanResend(ctx, email); err == nil && !canResend {
		return "", fmt.Errorf("%w: wait %d seconds", domain.ErrOTPResendLimit, waitTime)
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	hash, err := s.hasher.Hash(code)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}

	record := &domain.OneTimeCode{
		Email:     email,
		UserID:    userID,
		CodeHash:  hash,
		ExpiresAt: time.Now().Add(s.config.TTL),
		Used:      false,
	}
	if err := s.otpRepo.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store one-time code: %w", err)
	}

	// Arm the resend throttle. Throttling is best-effort; a dead Redis
	// must not block password resets.
	if s.redisClient != nil && s.config.ResendWindow > 0 {
		resendKey := resendKey(email)
		_ = s.redisClient.Set(ctx, resendKey, 1, s.config.ResendWindow).Err()
	}

	return code, nil
}

// Verify implements domain.OTPService. A mismatch leaves the record usable
// for another attempt until expiry; a match consumes it exactly once. The
// conditional consume in the repository is the sole point of exclusion
// between concurrent verifications.
func (s *OTPServiceImpl) Verify(ctx context.Context, email, code string) error {
	record, err := s.otpRepo.FindActive(ctx, email)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(record.CodeHash, code) {
		return domain.ErrOTPInvalid
	}

	return s.otpRepo.Consume(ctx, record.ID)
}

// CanResend implements domain.OTPService with Redis-based throttling
func (s *OTPServiceImpl) CanResend(ctx context.Context, email string) (bool, int64, error) {
	if s.redisClient == nil || s.config.ResendWindow <= 0 {
		return true, 0, nil
	}

	ttl, err := s.redisClient.TTL(ctx, resendKey(email)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	// If TTL <= 0, the key doesn't exist or has expired - can resend
	if ttl <= 0 {
		return true, 0, nil
	}

	return false, int64(ttl.Seconds()), nil
}

// generateSecureCode generates a fixed-width numeric code, uniform over
// [0, 10^length), from a cryptographically secure source.
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}

func resendKey(email string) string {
	return fmt.Sprintf("otp:res:%s", email)
}
