package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"jwt-todo/internal/auth"
	"jwt-todo/internal/repository"
	"jwt-todo/internal/repository/sqlite"
	"jwt-todo/internal/service"
)

type testServer struct {
	router *gin.Engine
	users  repository.UserRepository
	tokens *auth.TokenService
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	users := sqlite.NewUserRepository(db)
	todos := sqlite.NewTodoRepository(db)
	if err := users.Init(t.Context()); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := todos.Init(t.Context()); err != nil {
		t.Fatalf("init todos: %v", err)
	}

	tokens, err := auth.NewTokenService("api-test-secret")
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := &testServer{users: users, tokens: tokens, now: time.Now().UTC()}
	handler := NewHandler(
		service.NewAuthService(users, hasher, tokens, func() time.Time { return s.now }),
		service.NewUserService(users, hasher),
		service.NewTodoService(todos),
		logger,
	)
	s.router = gin.New()
	handler.RegisterRoutes(s.router)
	return s
}

type request struct {
	method string
	path   string
	body   any
	token  string
	basic  [2]string
}

func (s *testServer) do(t *testing.T, r request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set(TokenHeader, r.token)
	}
	if r.basic[0] != "" || r.basic[1] != "" {
		req.SetBasicAuth(r.basic[0], r.basic[1])
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s response %q: %v", r.method, r.path, rec.Body.String(), err)
		}
	}
	return rec, out
}

func (s *testServer) register(t *testing.T, name, password string) string {
	t.Helper()
	rec, out := s.do(t, request{method: http.MethodPost, path: "/user", body: map[string]string{"name": name, "password": password}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %v", name, rec.Code, out)
	}
	user := out["user"].(map[string]any)
	return user["public_id"].(string)
}

func (s *testServer) login(t *testing.T, name, password string) string {
	t.Helper()
	rec, out := s.do(t, request{method: http.MethodGet, path: "/login", basic: [2]string{name, password}})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", name, rec.Code, out)
	}
	return out["token"].(string)
}

func (s *testServer) promote(t *testing.T, publicID string) {
	t.Helper()
	if err := s.users.Promote(t.Context(), publicID); err != nil {
		t.Fatalf("promote: %v", err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
