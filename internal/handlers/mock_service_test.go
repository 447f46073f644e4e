package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pivovar/internal/i18n"
	"pivovar/internal/logger"
	"pivovar/internal/models"
	"pivovar/internal/service"
	"pivovar/internal/store"
	"pivovar/internal/web"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockPhases struct {
	resp       models.WashMachine
	err        error
	calls      int
	lastName   string
	lastPhases []string
}

func (m *mockPhases) Reorder(ctx context.Context, name string, phases []string) (models.WashMachine, error) {
	m.calls++
	m.lastName = name
	m.lastPhases = phases
	return m.resp, m.err
}

type mockMonitoring struct {
	list []models.WashMachine
	one  models.WashMachine
	err  error
}

func (m *mockMonitoring) WashMachines(ctx context.Context) []models.WashMachine {
	return m.list
}

func (m *mockMonitoring) WashMachine(ctx context.Context, name string) (models.WashMachine, error) {
	return m.one, m.err
}

type mockEventLog struct {
	resp     []models.Event
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.Event, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func testDeps(t *testing.T) Deps {
	t.Helper()
	catalog, err := i18n.Default("en")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	pages, err := web.NewRenderer(catalog)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return Deps{
		Store:   store.New(),
		Catalog: catalog,
		Pages:   pages,
		Console: logger.NewConsole(16),
		Log:     logger.Nop(),
	}
}

func newTestHandler(t *testing.T, s *service.Service, opts ...func(*Deps)) *Handler {
	t.Helper()
	d := testDeps(t)
	for _, o := range opts {
		o(&d)
	}
	return NewHandler(s, d)
}

func newTestRouter(t *testing.T, s *service.Service, opts ...func(*Deps)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return newTestHandler(t, s, opts...).InitRoutes()
}

func withAuth(d *Deps) { d.AuthEnabled = true }

func withStore(s *store.Store) func(*Deps) {
	return func(d *Deps) { d.Store = s }
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
