package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/config"
	"github.com/deppfellow/netanomics/internal/handler"
	"github.com/deppfellow/netanomics/internal/server"
	"github.com/deppfellow/netanomics/internal/service"
)

func newTestRouter(t *testing.T, mutate func(cfg *config.Config)) *echo.Echo {
	t.Helper()
	logger := zerolog.New(io.Discard)
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	s := &server.Server{Config: cfg, Logger: &logger}

	h := &handler.Handlers{
		Health:       handler.NewHealthHandler(s),
		OpenAPI:      handler.NewOpenAPIHandler(s),
		Constituency: handler.NewConstituencyHandler(s, nil),
		Analysis:     handler.NewAnalysisHandler(s, nil, nil, nil),
		Process:      handler.NewProcessHandler(s, nil, nil, nil),
	}
	services := &service.Services{Auth: service.NewAuthService(cfg.Auth, &logger)}

	return NewRouter(s, h, services)
}

func do(r http.Handler, method, target string) int {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec.Code
}

func TestRoutesRegistered(t *testing.T) {
	e := newTestRouter(t, nil)

	registered := map[string]bool{}
	for _, route := range e.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /",
		"GET /status",
		"GET /docs",
		"GET /api/v1/constituencies",
		"GET /api/v1/dashboard/:constituency_name",
		"POST /api/v1/insights/detail",
		"POST /api/v1/legal/generate-docs",
		"POST /api/v1/budget/generate-optimal",
		"POST /api/v1/process/run",
		"POST /api/v1/process/enqueue",
		"POST /api/v1/audit/:constituency_id/run",
	} {
		if !registered[want] {
			t.Errorf("route %q not registered", want)
		}
	}
}

func TestSystemRoutes(t *testing.T) {
	r := newTestRouter(t, nil)

	if code := do(r, http.MethodGet, "/"); code != http.StatusOK {
		t.Fatalf("GET / = %d", code)
	}
	if code := do(r, http.MethodGet, "/status"); code != http.StatusOK {
		t.Fatalf("GET /status = %d", code)
	}
	if code := do(r, http.MethodGet, "/api/v1/nothing-here"); code != http.StatusNotFound {
		t.Fatalf("unknown route = %d", code)
	}
}

func TestProcessRoutesRequireAuthWhenConfigured(t *testing.T) {
	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.Auth.SecretKey = "sk_test_router"
	})

	for _, target := range []string{"/api/v1/process/run", "/api/v1/process/enqueue", "/api/v1/audit/1/run"} {
		if code := do(r, http.MethodPost, target); code != http.StatusUnauthorized {
			t.Errorf("POST %s = %d, want 401", target, code)
		}
	}
}

func TestModelRoutesAreRateLimited(t *testing.T) {
	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = 0.001
		cfg.Server.RateBurst = 1
	})

	// The empty body fails validation, which still consumes a token.
	if code := do(r, http.MethodPost, "/api/v1/budget/generate-optimal"); code != http.StatusBadRequest {
		t.Fatalf("first request = %d", code)
	}
	if code := do(r, http.MethodPost, "/api/v1/budget/generate-optimal"); code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d", code)
	}
}
