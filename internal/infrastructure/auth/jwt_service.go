package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/you/eduauthsvc/domain"
)

// DefaultTTL is used when a caller passes a zero ttl to Issue.
const DefaultTTL = 10 * time.Minute

// JWTServiceImpl implements domain.TokenService with HMAC-SHA256 signing.
// It holds no state beyond the signing configuration: issuance is a pure
// function of (claims, secret, clock) and validation of (token, secret,
// clock).
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	audience  string
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey, issuer, audience string) domain.TokenService {
	return &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		audience:  audience,
	}
}

// Issue implements domain.TokenService
func (j *JWTServiceImpl) Issue(user *domain.User, ttl time.Duration, purpose string) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"uid":      strconv.FormatUint(uint64(user.ID), 10),
		"email":    user.Email,
		"role":     user.Role,
		"verified": strconv.FormatBool(user.Verified),
		"purpose":  purpose,
		"iss":      j.issuer,
		"aud":      j.audience,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// Validate implements domain.TokenService. Signature, issuer, audience and
// expiry are all mandatory; each required claim that is absent fails with
// its own error so callers can report which one.
func (j *JWTServiceImpl) Validate(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, domain.ErrTokenInvalid
			}
			return j.secretKey, nil
		},
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	// uid must be present and parse as an integer; a non-integer value is
	// indistinguishable from a missing claim.
	uidStr, ok := claims["uid"].(string)
	if !ok {
		return nil, domain.ErrTokenMissingSubject
	}
	uid, err := strconv.ParseUint(uidStr, 10, 64)
	if err != nil {
		return nil, domain.ErrTokenMissingSubject
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, domain.ErrTokenMissingEmail
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return nil, domain.ErrTokenMissingRole
	}

	tokenClaims := &domain.TokenClaims{
		UserID: uint(uid),
		Email:  email,
		Role:   mapRole(role),
	}

	if v, ok := claims["verified"].(string); ok {
		tokenClaims.Verified = v == "true"
	}
	if p, ok := claims["purpose"].(string); ok {
		tokenClaims.Purpose = p
	}
	if iat, ok := claims["iat"].(float64); ok {
		tokenClaims.IssuedAt = int64(iat)
	}
	if exp, ok := claims["exp"].(float64); ok {
		tokenClaims.ExpiresAt = int64(exp)
	}

	return tokenClaims, nil
}

// mapRole maps a role claim onto the known roles. Anything that is not
// "admin" (case-insensitive) silently collapses to Student.
func mapRole(role string) string {
	if strings.EqualFold(role, domain.RoleAdmin) {
		return domain.RoleAdmin
	}
	return domain.RoleStudent
}
