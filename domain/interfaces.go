package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, userID uint, newHash string) error
	MarkVerified(ctx context.Context, userID uint) error
}

// OTPRepository defines one-time-code data access operations. Records are
// append-only; Consume is the sole mutation and must be atomic.
type OTPRepository interface {
	Create(ctx context.Context, code *OneTimeCode) error
	// FindActive returns the latest unexpired, unused record for the email,
	// or ErrOTPNotFound.
	FindActive(ctx context.Context, email string) (*OneTimeCode, error)
	// Consume flips the used flag, conditioned on the record still being
	// unused. Returns ErrOTPInvalid when another request got there first.
	Consume(ctx context.Context, id uint) error
}

// CatalogRepository exposes the referential lookups the registration flow
// needs. Catalog management itself lives elsewhere.
type CatalogRepository interface {
	CurriculumExists(ctx context.Context, id uint) (bool, error)
	ExamBoardBelongsToCurriculum(ctx context.Context, examBoardID, curriculumID uint) (bool, error)
	LevelBelongsToExamBoard(ctx context.Context, levelID, examBoardID uint) (bool, error)
}

// AuthService defines the credential flows
type AuthService interface {
	Register(ctx context.Context, username, email, password string, sel CatalogSelection) (*User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyOTPAndIssueResetToken(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	RequestEmailVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, email, code string) error
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
}

// OTPService defines one-time-code operations
type OTPService interface {
	// Issue creates and persists a hashed code record and returns the
	// plaintext for delivery. The plaintext is never stored.
	Issue(ctx context.Context, userID uint, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
	CanResend(ctx context.Context, email string) (bool, int64, error)
}

// Hasher defines the adaptive hashing capability shared by passwords and
// one-time codes.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(hashed, plaintext string) bool
}

// TokenService defines token operations
type TokenService interface {
	Issue(user *User, ttl time.Duration, purpose string) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// EmailService delivers templated mail to a single recipient
type EmailService interface {
	Send(recipientName, recipientEmail, subject, htmlBody string) error
}

// EmailTemplateBuilder renders the HTML bodies the auth flows send
type EmailTemplateBuilder interface {
	PasswordReset(recipientName, code string, validFor time.Duration) (string, error)
	EmailVerification(recipientName, code string, validFor time.Duration) (string, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the slice of the casbin enforcer the service uses
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
