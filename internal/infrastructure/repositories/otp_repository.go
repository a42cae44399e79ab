package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/eduauthsvc/domain"
	"gorm.io/gorm"
)

// OTPRepositoryImpl implements domain.OTPRepository using GORM. Records are
// append-only; expired rows are never deleted, only filtered out.
type OTPRepositoryImpl struct {
	db *gorm.DB
}

// DBOneTimeCode represents the database model for OneTimeCode
type DBOneTimeCode struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"index;size:255"`
	UserID    uint      `gorm:"index"`
	CodeHash  string    `gorm:"column:code_hash"`
	ExpiresAt time.Time `gorm:"index"`
	Used      bool      `gorm:"index"`
	CreatedAt time.Time `gorm:"index"`
}

func (DBOneTimeCode) TableName() string {
	return "one_time_codes"
}

// NewOTPRepository creates a new one-time-code repository
func NewOTPRepository(db *gorm.DB) domain.OTPRepository {
	return &OTPRepositoryImpl{db: db}
}

// Create implements domain.OTPRepository
func (r *OTPRepositoryImpl) Create(ctx context.Context, code *domain.OneTimeCode) error {
	dbCode := &DBOneTimeCode{
		Email:     code.Email,
		UserID:    code.UserID,
		CodeHash:  code.CodeHash,
		ExpiresAt: code.ExpiresAt,
		Used:      code.Used,
	}
	if err := r.db.WithContext(ctx).Create(dbCode).Error; err != nil {
		return err
	}
	code.ID = dbCode.ID
	code.CreatedAt = dbCode.CreatedAt
	return nil
}

// FindActive implements domain.OTPRepository: the latest unexpired, unused
// record for the email. "Active" is re-evaluated against the clock on every
// call; expired or consumed records never qualify.
func (r *OTPRepositoryImpl) FindActive(ctx context.Context, email string) (*domain.OneTimeCode, error) {
	var dbCode DBOneTimeCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND used = ? AND expires_at > ?", email, false, time.Now()).
		Order("created_at DESC").
		First(&dbCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}

	return &domain.OneTimeCode{
		ID:        dbCode.ID,
		Email:     dbCode.Email,
		UserID:    dbCode.UserID,
		CodeHash:  dbCode.CodeHash,
		ExpiresAt: dbCode.ExpiresAt,
		Used:      dbCode.Used,
		CreatedAt: dbCode.CreatedAt,
	}, nil
}

// Consume implements domain.OTPRepository. The update is conditioned on the
// record still being unused so two concurrent verifications cannot both
// consume the same code; the loser sees zero rows affected.
func (r *OTPRepositoryImpl) Consume(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&DBOneTimeCode{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOTPInvalid
	}
	return nil
}
