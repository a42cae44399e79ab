package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/eduauthsvc/domain"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:64"`
	Email        string    `gorm:"uniqueIndex;size:255"`
	PasswordHash string    `gorm:"column:password"`
	Role         string    `gorm:"index;size:32"`
	Verified     bool      `gorm:"index"`
	CurriculumID *uint     `gorm:"index"`
	ExamBoardID  *uint     `gorm:"index"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
	Levels       []DBUserLevel `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// DBUserLevel joins a user to a chosen catalog level
type DBUserLevel struct {
	UserID  uint `gorm:"primaryKey;autoIncrement:false"`
	LevelID uint `gorm:"primaryKey;autoIncrement:false"`
}

func (DBUserLevel) TableName() string {
	return "user_levels"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository. Unique-index violations on email
// and username are translated to domain conflicts; the store's constraints
// are the final arbiter for concurrent registrations.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var count int64
			r.db.WithContext(ctx).Model(&DBUser{}).Where("email = ?", user.Email).Count(&count)
			if count > 0 {
				return domain.ErrEmailAlreadyExists
			}
			return domain.ErrUsernameTaken
		}
		return err
	}
	user.ID = dbUser.ID
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Preload("Levels").Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Preload("Levels").Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// ExistsUsername implements domain.UserRepository
func (r *UserRepositoryImpl) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdatePassword implements domain.UserRepository
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userID uint, newHash string) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Update("password", newHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// MarkVerified implements domain.UserRepository (idempotent)
func (r *UserRepositoryImpl) MarkVerified(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Update("verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	dbUser := &DBUser{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		Verified:     user.Verified,
		CurriculumID: user.CurriculumID,
		ExamBoardID:  user.ExamBoardID,
	}
	for _, levelID := range user.LevelIDs {
		dbUser.Levels = append(dbUser.Levels, DBUserLevel{LevelID: levelID})
	}
	return dbUser
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	user := &domain.User{
		ID:           dbUser.ID,
		Username:     dbUser.Username,
		Email:        dbUser.Email,
		PasswordHash: dbUser.PasswordHash,
		Role:         dbUser.Role,
		Verified:     dbUser.Verified,
		CurriculumID: dbUser.CurriculumID,
		ExamBoardID:  dbUser.ExamBoardID,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
	for _, level := range dbUser.Levels {
		user.LevelIDs = append(user.LevelIDs, level.LevelID)
	}
	return user
}
