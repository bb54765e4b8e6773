package admin_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/admin"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/models"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/roles"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/seeding"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/session"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store/memstore"
)

type panelResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error"`
	Created bool   `json:"created"`
}

type testServer struct {
	mem    *memstore.Store
	router *gin.Engine
	jwt    *session.JWTProvider
}

var (
	adminUser = models.Session{ID: "uid-admin", Email: "ops@pathx.dev"}
	plainUser = models.Session{ID: "uid-user", Email: "user@pathx.dev"}
)

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := memstore.New()
	jwtProvider, err := session.NewJWTProvider("test-secret", "")
	if err != nil {
		t.Fatalf("NewJWTProvider: %v", err)
	}
	logger := zap.NewNop()

	seeder := seeding.NewService(mem, nil, nil, seeding.Options{JobsCollection: "jobs", AtomicBatch: true}, logger)
	promoter := roles.NewPromoter(mem, jwtProvider, nil, nil, roles.Options{
		UsersCollection: "users",
		AllowList:       roles.NewAllowList([]string{adminUser.Email}, nil),
	}, logger)

	h := admin.NewHandler(seeder, promoter, jwtProvider, logger)
	return &testServer{
		mem:    mem,
		router: h.Router([]string{"http://localhost:3000"}),
		jwt:    jwtProvider,
	}
}

func (s *testServer) do(t *testing.T, method, target, body string, as *models.Session) (int, panelResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		tok, err := s.jwt.Issue(*as, time.Hour)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp panelResponse
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, target, w.Body.String(), err)
		}
	}
	return w.Code, resp
}

func (s *testServer) makeAdmin(id string) {
	s.mem.Put("users", id, store.Record{"role": "super_admin"})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("GET /health = %d %s", w.Code, w.Body.String())
	}
}

func TestSeed_RequiresSession(t *testing.T) {
	s := newTestServer(t)
	code, resp := s.do(t, http.MethodPost, "/api/admin/jobs/seed", "", nil)
	if code != http.StatusUnauthorized || resp.Success {
		t.Errorf("unauthenticated seed = %d %+v", code, resp)
	}
	if s.mem.Count("jobs") != 0 {
		t.Error("unauthenticated request wrote jobs")
	}
}

func TestSeed_RequiresSuperAdmin(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(t, http.MethodPost, "/api/admin/jobs/seed", "", &plainUser)
	if code != http.StatusForbidden {
		t.Errorf("seed as plain user = %d, want 403", code)
	}
}

func TestSeedAndClear(t *testing.T) {
	s := newTestServer(t)
	s.makeAdmin(adminUser.ID)

	code, resp := s.do(t, http.MethodPost, "/api/admin/jobs/seed", "", &adminUser)
	if code != http.StatusOK || !resp.Success || resp.Count != 12 {
		t.Fatalf("seed = %d %+v", code, resp)
	}

	code, resp = s.do(t, http.MethodPost, "/api/admin/jobs/seed", `{"clearFirst":true,"scope":"all","confirm":true}`, &adminUser)
	if code != http.StatusOK || resp.Count != 12 || s.mem.Count("jobs") != 12 {
		t.Fatalf("clear and reseed = %d %+v, %d docs", code, resp, s.mem.Count("jobs"))
	}

	code, resp = s.do(t, http.MethodPost, "/api/admin/jobs/seed", `{"clearFirst":true}`, &adminUser)
	if code != http.StatusBadRequest || resp.Success || !strings.Contains(resp.Error, "confirm") {
		t.Errorf("unconfirmed clear and reseed = %d %+v, want 400 naming confirm", code, resp)
	}
	if got := s.mem.Count("jobs"); got != 12 {
		t.Errorf("refused reseed changed the collection to %d docs", got)
	}

	code, resp = s.do(t, http.MethodPost, "/api/admin/jobs/seed", `{"clearFirst":true,"scope":"seeded"}`, &adminUser)
	if code != http.StatusOK || resp.Count != 12 || s.mem.Count("jobs") != 12 {
		t.Errorf("seeded-scope reseed = %d %+v, %d docs", code, resp, s.mem.Count("jobs"))
	}

	code, resp = s.do(t, http.MethodDelete, "/api/admin/jobs?scope=all", "", &adminUser)
	if code != http.StatusBadRequest || resp.Success || resp.Error == "" {
		t.Errorf("unconfirmed clear = %d %+v", code, resp)
	}

	code, resp = s.do(t, http.MethodDelete, "/api/admin/jobs?scope=all&confirm=true", "", &adminUser)
	if code != http.StatusOK || resp.Count != 12 || s.mem.Count("jobs") != 0 {
		t.Errorf("clear = %d %+v", code, resp)
	}

	code, resp = s.do(t, http.MethodDelete, "/api/admin/jobs?scope=bogus", "", &adminUser)
	if code != http.StatusBadRequest {
		t.Errorf("bogus scope = %d %+v", code, resp)
	}
}

func TestSeed_StoreFailureBanner(t *testing.T) {
	s := newTestServer(t)
	s.makeAdmin(adminUser.ID)
	s.mem.InjectFault(func(op memstore.Op, collection string, _ store.Record) error {
		if op == memstore.OpAdd && collection == "jobs" {
			return stderrors.New("quota exceeded")
		}
		return nil
	})

	code, resp := s.do(t, http.MethodPost, "/api/admin/jobs/seed", "", &adminUser)
	if code != http.StatusServiceUnavailable || resp.Success || resp.Error != "quota exceeded" {
		t.Errorf("seed with failing store = %d %+v", code, resp)
	}
}

func TestPromote(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodPost, "/api/admin/users/me/promote", "", &plainUser)
	if code != http.StatusForbidden {
		t.Errorf("promote outside allow-list = %d %+v", code, resp)
	}

	code, resp = s.do(t, http.MethodPost, "/api/admin/users/me/promote", "", &adminUser)
	if code != http.StatusOK || !resp.Success || !resp.Created {
		t.Fatalf("promote = %d %+v", code, resp)
	}

	// The freshly promoted operator can now seed.
	code, resp = s.do(t, http.MethodPost, "/api/admin/jobs/seed", "", &adminUser)
	if code != http.StatusOK || resp.Count != 12 {
		t.Errorf("seed after promote = %d %+v", code, resp)
	}

	profile, ok, _ := s.mem.Get(context.Background(), "users", adminUser.ID)
	if !ok || profile["email"] != adminUser.Email {
		t.Errorf("profile = %v", profile)
	}
}
