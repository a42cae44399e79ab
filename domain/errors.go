package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUsernameExhausted  = errors.New("could not generate a unique username")
	ErrAlreadyVerified    = errors.New("email already verified")
)

// One-time-code errors
var (
	ErrOTPNotFound = errors.New("no active one-time code")
	ErrOTPInvalid  = errors.New("invalid one-time code")
)

// Token errors. The three missing-claim errors are deliberately distinct so
// a caller can report which claim was absent.
var (
	ErrTokenInvalid        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrTokenMissingSubject = errors.New("token is missing a valid user id claim")
	ErrTokenMissingEmail   = errors.New("token is missing the email claim")
	ErrTokenMissingRole    = errors.New("token is missing the role claim")
	ErrTokenWrongPurpose   = errors.New("token was issued for a different purpose")
)

// Catalog reference errors
var (
	ErrCurriculumNotFound   = errors.New("curriculum not found")
	ErrExamBoardNotFound    = errors.New("exam board not found in the selected curriculum")
	ErrLevelNotFound        = errors.New("level not found in the selected exam board")
	ErrInvalidCatalogChoice = errors.New("catalog selection is inconsistent")
)

// Throttling
var ErrOTPResendLimit = errors.New("one-time code resend limit exceeded")
