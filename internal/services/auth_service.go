package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/you/eduauthsvc/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	catalogRepo domain.CatalogRepository
	hasher      domain.Hasher
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
	emailSvc    domain.EmailService
	templates   domain.EmailTemplateBuilder
	config      AuthConfig
}

type AuthConfig struct {
	AccessTTL           time.Duration
	RefreshTTL          time.Duration
	ResetTTL            time.Duration
	OTPTTL              time.Duration
	UsernameMaxAttempts int
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	catalogRepo domain.CatalogRepository,
	hasher domain.Hasher,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	emailSvc domain.EmailService,
	templates domain.EmailTemplateBuilder,
	config AuthConfig,
) domain.AuthService {
	if config.UsernameMaxAttempts <= 0 {
		config.UsernameMaxAttempts = 10
	}
	return &AuthServiceImpl{
		userRepo:    userRepo,
		catalogRepo: catalogRepo,
		hasher:      hasher,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
		emailSvc:    emailSvc,
		templates:   templates,
		config:      config,
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string, sel domain.CatalogSelection) (*domain.User, error) {
	// Duplicate email check up front; the unique index is still the final
	// arbiter under concurrent registrations.
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if err := s.validateCatalogSelection(ctx, sel); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	candidate, err := s.GenerateUniqueUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     candidate,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleStudent,
		Verified:     false,
		CurriculumID: sel.CurriculumID,
		ExamBoardID:  sel.ExamBoardID,
		LevelIDs:     sel.LevelIDs,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can win the username between the probe
		// and the insert; re-probe once before giving up.
		if errors.Is(err, domain.ErrUsernameTaken) {
			candidate, err = s.GenerateUniqueUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			user.Username = candidate
			if err := s.userRepo.Create(ctx, user); err != nil {
				return nil, err
			}
			return user, nil
		}
		return nil, err
	}

	return user, nil
}

// GenerateUniqueUsername probes the store for a free username: the base
// name first, then the base with a random 6-digit suffix, up to the
// configured number of attempts.
func (s *AuthServiceImpl) GenerateUniqueUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for attempt := 0; attempt < s.config.UsernameMaxAttempts; attempt++ {
		taken, err := s.userRepo.ExistsUsername(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}

		suffix, err := randomDigits(6)
		if err != nil {
			return "", fmt.Errorf("failed to generate username suffix: %w", err)
		}
		candidate = base + suffix
	}
	return "", domain.ErrUsernameExhausted
}

// Login implements domain.AuthService. Unknown email and wrong password are
// indistinguishable to the caller, to avoid account enumeration.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.tokenSvc.Issue(user, s.config.AccessTTL, domain.PurposeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokenSvc.Issue(user, s.config.RefreshTTL, domain.PurposeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTTL.Seconds()),
	}, nil
}

// RefreshAccessToken implements domain.AuthService. Refresh tokens are not
// rotated and there is no revocation list; a token stays valid for its full
// lifetime. This is a recorded product decision, not an oversight.
func (s *AuthServiceImpl) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokenSvc.Validate(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != domain.PurposeRefresh {
		return nil, domain.ErrTokenWrongPurpose
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokenSvc.Issue(user, s.config.AccessTTL, domain.PurposeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTTL.Seconds()),
	}, nil
}

// RequestPasswordReset implements domain.AuthService. An unknown email is a
// silent success: no error, no mail, no code record.
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	code, err := s.otpSvc.Issue(ctx, user.ID, user.Email)
	if err != nil {
		return err
	}

	body, err := s.templates.PasswordReset(user.Username, code, s.config.OTPTTL)
	if err != nil {
		return err
	}

	return s.emailSvc.Send(user.Username, user.Email, "Reset your password", body)
}

// VerifyOTPAndIssueResetToken implements domain.AuthService. The returned
// token carries the reset purpose so an ordinary access token cannot be
// replayed against the reset endpoint.
func (s *AuthServiceImpl) VerifyOTPAndIssueResetToken(ctx context.Context, email, code string) (string, error) {
	if err := s.otpSvc.Verify(ctx, email, code); err != nil {
		return "", err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	return s.tokenSvc.Issue(user, s.config.ResetTTL, domain.PurposeReset)
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokenSvc.Validate(resetToken)
	if err != nil {
		return err
	}
	if claims.Purpose != domain.PurposeReset {
		return domain.ErrTokenWrongPurpose
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, claims.UserID, newHash)
}

// RequestEmailVerification implements domain.AuthService. Unknown email is
// a silent success; an already verified account is a conflict.
func (s *AuthServiceImpl) RequestEmailVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Verified {
		return domain.ErrAlreadyVerified
	}

	code, err := s.otpSvc.Issue(ctx, user.ID, user.Email)
	if err != nil {
		return err
	}

	body, err := s.templates.EmailVerification(user.Username, code, s.config.OTPTTL)
	if err != nil {
		return err
	}

	return s.emailSvc.Send(user.Username, user.Email, "Verify your email", body)
}

// VerifyEmail implements domain.AuthService
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, email, code string) error {
	if err := s.otpSvc.Verify(ctx, email, code); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	return s.userRepo.MarkVerified(ctx, user.ID)
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// validateCatalogSelection checks the optional curriculum/exam-board/level
// choices nest correctly: levels under the exam board, the exam board under
// the curriculum.
func (s *AuthServiceImpl) validateCatalogSelection(ctx context.Context, sel domain.CatalogSelection) error {
	if sel.CurriculumID == nil {
		if sel.ExamBoardID != nil || len(sel.LevelIDs) > 0 {
			return domain.ErrInvalidCatalogChoice
		}
		return nil
	}

	exists, err := s.catalogRepo.CurriculumExists(ctx, *sel.CurriculumID)
	if err != nil {
		return fmt.Errorf("failed to check curriculum: %w", err)
	}
	if !exists {
		return domain.ErrCurriculumNotFound
	}

	if sel.ExamBoardID == nil {
		if len(sel.LevelIDs) > 0 {
			return domain.ErrInvalidCatalogChoice
		}
		return nil
	}

	ok, err := s.catalogRepo.ExamBoardBelongsToCurriculum(ctx, *sel.ExamBoardID, *sel.CurriculumID)
	if err != nil {
		return fmt.Errorf("failed to check exam board: %w", err)
	}
	if !ok {
		return domain.ErrExamBoardNotFound
	}

	for _, levelID := range sel.LevelIDs {
		ok, err := s.catalogRepo.LevelBelongsToExamBoard(ctx, levelID, *sel.ExamBoardID)
		if err != nil {
			return fmt.Errorf("failed to check level: %w", err)
		}
		if !ok {
			return domain.ErrLevelNotFound
		}
	}

	return nil
}

// randomDigits returns n decimal digits from a cryptographically secure
// source.
func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}
