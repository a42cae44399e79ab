package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/eduauthsvc/domain"
)

const refreshCookieName = "refresh_token"

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc    domain.AuthService
	refreshTTL time.Duration
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, refreshTTL time.Duration) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc, refreshTTL: refreshTTL}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=40"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	CurriculumID *uint  `json:"curriculum_id,omitempty"`
	ExamBoardID  *uint  `json:"exam_board_id,omitempty"`
	LevelIDs     []uint `json:"level_ids,omitempty"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// EmailRequest carries just an email address
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// OTPVerifyRequest represents a one-time-code verification request
type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// ResetPasswordRequest represents the final password reset step
type ResetPasswordRequest struct {
	ResetToken  string `json:"reset_token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sel := domain.CatalogSelection{
		CurriculumID: req.CurriculumID,
		ExamBoardID:  req.ExamBoardID,
		LevelIDs:     req.LevelIDs,
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password, sel)
	if err != nil {
		switch err {
		case domain.ErrEmailAlreadyExists, domain.ErrUsernameTaken:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case domain.ErrUsernameExhausted, domain.ErrInvalidCatalogChoice:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case domain.ErrCurriculumNotFound, domain.ErrExamBoardNotFound, domain.ErrLevelNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": publicProfile(user),
	})
}

// Login handles user login. The access token goes in the body; the refresh
// token travels only in an HTTP-only cookie.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   result.ExpiresIn,
			"user":         publicProfile(result.User),
		},
	})
}

// Refresh handles access-token refresh from the cookie (or, as a fallback
// for non-browser clients, the request body).
func (h *AuthHandlers) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token required"})
			return
		}
		refreshToken = req.RefreshToken
	}

	result, err := h.authSvc.RefreshAccessToken(c.Request.Context(), refreshToken)
	if err != nil {
		switch err {
		case domain.ErrUserNotFound:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		case domain.ErrTokenExpired, domain.ErrTokenInvalid, domain.ErrTokenWrongPurpose,
			domain.ErrTokenMissingSubject, domain.ErrTokenMissingEmail, domain.ErrTokenMissingRole:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token refresh failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   result.ExpiresIn,
		},
	})
}

// ForgotPassword handles a password-reset request. The response is the same
// whether or not the account exists.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrOTPResendLimit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting another code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "If the account exists, a reset code has been sent"},
	})
}

// VerifyResetOTP verifies the emailed code and returns a short-lived reset
// token for the final reset step.
func (h *AuthHandlers) VerifyResetOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resetToken, err := h.authSvc.VerifyOTPAndIssueResetToken(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch err {
		case domain.ErrOTPNotFound, domain.ErrOTPInvalid:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"reset_token": resetToken},
	})
}

// ResetPassword overwrites the password given a valid reset token
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), req.ResetToken, req.NewPassword); err != nil {
		switch err {
		case domain.ErrTokenExpired, domain.ErrTokenInvalid, domain.ErrTokenWrongPurpose,
			domain.ErrTokenMissingSubject, domain.ErrTokenMissingEmail, domain.ErrTokenMissingRole:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset token"})
		case domain.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Password reset successfully"},
	})
}

// RequestEmailVerification sends a verification code to an unverified
// account. Unknown accounts get the same success response.
func (h *AuthHandlers) RequestEmailVerification(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.RequestEmailVerification(c.Request.Context(), req.Email); err != nil {
		switch {
		case err == domain.ErrAlreadyVerified:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrOTPResendLimit):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting another code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "If the account exists, a verification code has been sent"},
	})
}

// VerifyEmail consumes the emailed code and marks the account verified
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		switch err {
		case domain.ErrOTPNotFound, domain.ErrOTPInvalid:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired code"})
		case domain.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Email verified successfully"},
	})
}

// Me handles getting the authenticated user's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), userID.(uint))
	if err != nil {
		if err == domain.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": publicProfile(user)})
}

// setRefreshCookie delivers the refresh token as an HTTP-only, Secure,
// SameSite=None cookie scoped to the refresh endpoint.
func (h *AuthHandlers) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(refreshCookieName, token, int(h.refreshTTL.Seconds()), "/auth/refresh", "", true, true)
}

func publicProfile(user *domain.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"role":          user.Role,
		"verified":      user.Verified,
		"curriculum_id": user.CurriculumID,
		"exam_board_id": user.ExamBoardID,
		"level_ids":     user.LevelIDs,
		"created_at":    user.CreatedAt,
	}
}
