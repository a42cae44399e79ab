package repositories

import (
	"context"

	"github.com/you/eduauthsvc/domain"
	"gorm.io/gorm"
)

// CatalogRepositoryImpl implements domain.CatalogRepository over the
// catalog tables owned by the main platform backend. This service only
// reads them, to validate registration selections.
type CatalogRepositoryImpl struct {
	db *gorm.DB
}

// DBCurriculum mirrors the platform's curricula table
type DBCurriculum struct {
	ID uint `gorm:"primaryKey"`
}

func (DBCurriculum) TableName() string { return "curriculums" }

// DBExamBoard mirrors the platform's exam boards table
type DBExamBoard struct {
	ID           uint `gorm:"primaryKey"`
	CurriculumID uint `gorm:"index"`
}

func (DBExamBoard) TableName() string { return "exam_boards" }

// DBLevel mirrors the platform's levels table
type DBLevel struct {
	ID          uint `gorm:"primaryKey"`
	ExamBoardID uint `gorm:"index"`
}

func (DBLevel) TableName() string { return "levels" }

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) domain.CatalogRepository {
	return &CatalogRepositoryImpl{db: db}
}

// CurriculumExists implements domain.CatalogRepository
func (r *CatalogRepositoryImpl) CurriculumExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBCurriculum{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExamBoardBelongsToCurriculum implements domain.CatalogRepository
func (r *CatalogRepositoryImpl) ExamBoardBelongsToCurriculum(ctx context.Context, examBoardID, curriculumID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBExamBoard{}).
		Where("id = ? AND curriculum_id = ?", examBoardID, curriculumID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LevelBelongsToExamBoard implements domain.CatalogRepository
func (r *CatalogRepositoryImpl) LevelBelongsToExamBoard(ctx context.Context, levelID, examBoardID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBLevel{}).
		Where("id = ? AND exam_board_id = ?", levelID, examBoardID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
