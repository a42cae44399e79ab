package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	httpx "github.com/you/eduauthsvc/internal/http"
	"github.com/you/eduauthsvc/internal/http/handlers"
	"github.com/you/eduauthsvc/internal/http/middleware"
	"github.com/you/eduauthsvc/internal/infrastructure/auth"
	"github.com/you/eduauthsvc/internal/infrastructure/notifications"
	"github.com/you/eduauthsvc/internal/infrastructure/repositories"
	"github.com/you/eduauthsvc/internal/mocks"
	"github.com/you/eduauthsvc/internal/services"
)

const rbacModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// TestServer runs the full HTTP surface against in-process fakes: an
// in-memory database, miniredis and a recording mail sink. Everything
// between the router and the stores is the real thing.
type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
	Emails *mocks.MockEmailService
}

func newTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// an in-memory database exists per connection, so keep the pool at one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&repositories.DBUser{},
		&repositories.DBUserLevel{},
		&repositories.DBOneTimeCode{},
		&repositories.DBCurriculum{},
		&repositories.DBExamBoard{},
		&repositories.DBLevel{},
	))
	require.NoError(t, db.Create(&repositories.DBCurriculum{ID: 1}).Error)
	require.NoError(t, db.Create(&repositories.DBExamBoard{ID: 10, CurriculumID: 1}).Error)
	require.NoError(t, db.Create(&repositories.DBLevel{ID: 100, ExamBoardID: 10}).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	modelPath := filepath.Join(t.TempDir(), "rbac_model.conf")
	require.NoError(t, os.WriteFile(modelPath, []byte(rbacModel), 0o600))

	adapter, err := gormadapter.NewAdapterByDB(db)
	require.NoError(t, err)
	enforcer, err := casbin.NewEnforcer(modelPath, adapter)
	require.NoError(t, err)
	_, err = enforcer.AddPolicy("role_student", "/auth/me", "GET")
	require.NoError(t, err)
	_, err = enforcer.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
	require.NoError(t, err)

	hasher := auth.NewHasherWithCost(bcrypt.MinCost)
	tokenSvc := auth.NewJWTService("e2e-secret", "eduauthsvc", "eduplatform")

	templates, err := notifications.NewTemplateBuilder()
	require.NoError(t, err)
	emails := mocks.NewMockEmailService()

	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)

	otpSvc := services.NewOTPService(otpRepo, hasher, rdb, services.OTPConfig{
		Length:       6,
		TTL:          10 * time.Minute,
		ResendWindow: time.Minute,
	})

	authSvc := services.NewAuthService(userRepo, catalogRepo, hasher, tokenSvc, otpSvc, emails, templates, services.AuthConfig{
		AccessTTL:           72 * time.Hour,
		RefreshTTL:          7 * 24 * time.Hour,
		ResetTTL:            15 * time.Minute,
		OTPTTL:              10 * time.Minute,
		UsernameMaxAttempts: 10,
	})

	authH := handlers.NewAuthHandlers(authSvc, 7*24*time.Hour)
	polH := handlers.NewPolicyHandlers(services.NewPolicyService(enforcer))

	router := httpx.BuildRouter(authH, polH, middleware.NewAuthMW(tokenSvc), middleware.NewCasbinMW(enforcer))

	return &TestServer{Router: router, DB: db, Emails: emails}
}

func (s *TestServer) postJSON(t *testing.T, path string, body interface{}, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestServer) get(t *testing.T, path, accessToken string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// lastEmailedCode digs the six-digit code out of the most recent mail
func (s *TestServer) lastEmailedCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.Emails.Sent, "expected at least one email")
	body := s.Emails.Sent[len(s.Emails.Sent)-1].HTMLBody
	code := codePattern.FindString(body)
	require.NotEmpty(t, code, "no code found in email body")
	return code
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}
