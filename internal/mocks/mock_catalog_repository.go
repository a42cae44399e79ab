package mocks

import (
	"context"

	"github.com/you/eduauthsvc/domain"
)

// MockCatalogRepository implements domain.CatalogRepository interface for testing
type MockCatalogRepository struct {
	CurriculumExistsFunc             func(ctx context.Context, id uint) (bool, error)
	ExamBoardBelongsToCurriculumFunc func(ctx context.Context, examBoardID, curriculumID uint) (bool, error)
	LevelBelongsToExamBoardFunc      func(ctx context.Context, levelID, examBoardID uint) (bool, error)
}

// NewMockCatalogRepository creates a new MockCatalogRepository with default behaviors
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{}
}

// CurriculumExists reports whether the curriculum is known
func (m *MockCatalogRepository) CurriculumExists(ctx context.Context, id uint) (bool, error) {
	if m.CurriculumExistsFunc != nil {
		return m.CurriculumExistsFunc(ctx, id)
	}
	// Default behavior: exists
	return true, nil
}

// ExamBoardBelongsToCurriculum checks the exam board nests under the curriculum
func (m *MockCatalogRepository) ExamBoardBelongsToCurriculum(ctx context.Context, examBoardID, curriculumID uint) (bool, error) {
	if m.ExamBoardBelongsToCurriculumFunc != nil {
		return m.ExamBoardBelongsToCurriculumFunc(ctx, examBoardID, curriculumID)
	}
	// Default behavior: belongs
	return true, nil
}

// LevelBelongsToExamBoard checks the level nests under the exam board
func (m *MockCatalogRepository) LevelBelongsToExamBoard(ctx context.Context, levelID, examBoardID uint) (bool, error) {
	if m.LevelBelongsToExamBoardFunc != nil {
		return m.LevelBelongsToExamBoardFunc(ctx, levelID, examBoardID)
	}
	// Default behavior: belongs
	return true, nil
}

// Compile-time interface compliance verification
var _ domain.CatalogRepository = (*MockCatalogRepository)(nil)
