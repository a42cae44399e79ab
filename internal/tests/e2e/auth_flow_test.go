package e2e

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, s *TestServer, username, email, password string) {
	t.Helper()
	w := s.postJSON(t, "/auth/register", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func login(t *testing.T, s *TestServer, email, password string) (string, *http.Cookie) {
	t.Helper()
	w := s.postJSON(t, "/auth/login", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	accessToken, _ := data["access_token"].(string)
	require.NotEmpty(t, accessToken)

	var refreshCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			refreshCookie = c
		}
	}
	require.NotNil(t, refreshCookie, "login should set the refresh cookie")
	return accessToken, refreshCookie
}

func TestRegisterLoginMe(t *testing.T) {
	s := newTestServer(t)

	register(t, s, "alice", "alice@example.com", "secret123")
	token, _ := login(t, s, "alice@example.com", "secret123")

	w := s.get(t, "/auth/me", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "alice@example.com")

	t.Run("me without a token", func(t *testing.T) {
		w := s.get(t, "/auth/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := s.postJSON(t, "/auth/login", gin.H{"email": "alice@example.com", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRegisterWithCatalogSelection(t *testing.T) {
	s := newTestServer(t)

	w := s.postJSON(t, "/auth/register", gin.H{
		"username":      "bob",
		"email":         "bob@example.com",
		"password":      "secret123",
		"curriculum_id": 1,
		"exam_board_id": 10,
		"level_ids":     []uint{100},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("exam board outside the curriculum", func(t *testing.T) {
		w := s.postJSON(t, "/auth/register", gin.H{
			"username":      "carol",
			"email":         "carol@example.com",
			"password":      "secret123",
			"curriculum_id": 1,
			"exam_board_id": 99,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDuplicateRegistration(t *testing.T) {
	s := newTestServer(t)

	register(t, s, "alice", "alice@example.com", "secret123")

	t.Run("same email conflicts", func(t *testing.T) {
		w := s.postJSON(t, "/auth/register", gin.H{
			"username": "someone",
			"email":    "alice@example.com",
			"password": "secret123",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("same username gets a suffix", func(t *testing.T) {
		w := s.postJSON(t, "/auth/register", gin.H{
			"username": "alice",
			"email":    "alice2@example.com",
			"password": "secret123",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		data := decodeData(t, w)
		username, _ := data["username"].(string)
		require.NotEqual(t, "alice", username)
		assert.Regexp(t, `^alice\d{6}$`, username)
	})
}

func TestRefreshFlow(t *testing.T) {
	s := newTestServer(t)

	register(t, s, "alice", "alice@example.com", "secret123")
	accessToken, refreshCookie := login(t, s, "alice@example.com", "secret123")

	w := s.postJSON(t, "/auth/refresh", gin.H{}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: refreshCookie.Name, Value: refreshCookie.Value})
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	newAccess, _ := data["access_token"].(string)
	require.NotEmpty(t, newAccess)

	got := s.get(t, "/auth/me", newAccess)
	assert.Equal(t, http.StatusOK, got.Code)

	t.Run("access token is not a refresh token", func(t *testing.T) {
		w := s.postJSON(t, "/auth/refresh", gin.H{"refresh_token": accessToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh cookie cannot reach the API", func(t *testing.T) {
		w := s.get(t, "/auth/me", refreshCookie.Value)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(t)

	register(t, s, "alice", "alice@example.com", "old-secret")

	w := s.postJSON(t, "/auth/password/forgot", gin.H{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	code := s.lastEmailedCode(t)

	w = s.postJSON(t, "/auth/password/verify-otp", gin.H{
		"email": "alice@example.com",
		"code":  code,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resetToken, _ := decodeData(t, w)["reset_token"].(string)
	require.NotEmpty(t, resetToken)

	w = s.postJSON(t, "/auth/password/reset", gin.H{
		"reset_token":  resetToken,
		"new_password": "new-secret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("old password no longer works", func(t *testing.T) {
		w := s.postJSON(t, "/auth/login", gin.H{"email": "alice@example.com", "password": "old-secret"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("new password works", func(t *testing.T) {
		login(t, s, "alice@example.com", "new-secret")
	})

	t.Run("the code is single use", func(t *testing.T) {
		w := s.postJSON(t, "/auth/password/verify-otp", gin.H{
			"email": "alice@example.com",
			"code":  code,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPasswordResetAntiEnumeration(t *testing.T) {
	s := newTestServer(t)

	w := s.postJSON(t, "/auth/password/forgot", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.Emails.Sent)
}

func TestPasswordResetResendThrottle(t *testing.T) {
	s := newTestServer(t)

	register(t, s, "alice", "alice@example.com", "secret123")

	w := s.postJSON(t, "/auth/password/forgot", gin.H{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.postJSON(t, "/auth/password/forgot", gin.H{"email": "alice@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestEmailVerificationFlow(t *testing.T) {
	s := newTestServer(t)

	register(t, s, "alice", "alice@example.com", "secret123")

	w := s.postJSON(t, "/auth/email/request-verification", gin.H{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	code := s.lastEmailedCode(t)

	w = s.postJSON(t, "/auth/email/verify", gin.H{
		"email": "alice@example.com",
		"code":  code,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("the profile shows verified", func(t *testing.T) {
		token, _ := login(t, s, "alice@example.com", "secret123")
		w := s.get(t, "/auth/me", token)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, true, data["verified"])
	})

	t.Run("a second request conflicts", func(t *testing.T) {
		w := s.postJSON(t, "/auth/email/request-verification", gin.H{"email": "alice@example.com"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	s := newTestServer(t)

	register(t, s, "alice", "alice@example.com", "secret123")
	token, _ := login(t, s, "alice@example.com", "secret123")

	req := httptest.NewRequest(http.MethodGet, "/admin/policies", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
