package domain

import "time"

// Roles recognised by the platform. Any other role string collapses to
// Student when a token is validated.
const (
	RoleStudent = "Student"
	RoleAdmin   = "Admin"
)

// Token purposes. Every issued token carries exactly one.
const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
	PurposeReset   = "reset"
)

// User represents an account on the platform
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Verified     bool
	CurriculumID *uint
	ExamBoardID  *uint
	LevelIDs     []uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OneTimeCode is a single issuance of an emailed verification/reset code.
// Records are append-only: the newest unexpired unused record for an email
// is the only one that counts for verification.
type OneTimeCode struct {
	ID        uint
	Email     string
	UserID    uint
	CodeHash  string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// CatalogSelection holds the optional curriculum/exam-board/level choices a
// user makes at registration. Each reference must exist and nest under its
// parent.
type CatalogSelection struct {
	CurriculumID *uint
	ExamBoardID  *uint
	LevelIDs     []uint
}

// AuthResult represents a successful login or refresh
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// TokenClaims represents the claims embedded in a signed token
type TokenClaims struct {
	UserID    uint
	Email     string
	Role      string
	Verified  bool
	Purpose   string
	IssuedAt  int64
	ExpiresAt int64
}
