package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/playperu/scrumcluedo/internal/database"
	"github.com/playperu/scrumcluedo/internal/handler/health"
)

func failing(msg string) health.Checker {
	return health.CheckerFunc(func(context.Context) error { return errors.New(msg) })
}

func passing() health.Checker {
	return health.CheckerFunc(func(context.Context) error { return nil })
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name        string
		checks      map[string]health.Checker
		wantStatus  int
		wantOverall string
		wantChecks  map[string]string
	}{
		{
			name:        "sqlite only",
			checks:      map[string]health.Checker{"sqlite": passing()},
			wantStatus:  http.StatusOK,
			wantOverall: "ok",
			wantChecks:  map[string]string{"sqlite": "ok"},
		},
		{
			name:        "all healthy",
			checks:      map[string]health.Checker{"sqlite": passing(), "redis": passing()},
			wantStatus:  http.StatusOK,
			wantOverall: "ok",
			wantChecks:  map[string]string{"sqlite": "ok", "redis": "ok"},
		},
		{
			name:        "redis down",
			checks:      map[string]health.Checker{"sqlite": passing(), "redis": failing("refused")},
			wantStatus:  http.StatusServiceUnavailable,
			wantOverall: "degraded",
			wantChecks:  map[string]string{"sqlite": "ok", "redis": "error"},
		},
		{
			name:        "both down",
			checks:      map[string]health.Checker{"sqlite": failing("locked"), "redis": failing("refused")},
			wantStatus:  http.StatusServiceUnavailable,
			wantOverall: "degraded",
			wantChecks:  map[string]string{"sqlite": "error", "redis": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body health.Response
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if body.Status != tt.wantOverall {
				t.Errorf("overall = %q, want %q", body.Status, tt.wantOverall)
			}
			for name, want := range tt.wantChecks {
				if got := body.Checks[name]; got != want {
					t.Errorf("%s status = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestHandlerRealBackends(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	h := health.NewHandler(slog.Default(), map[string]health.Checker{
		"sqlite": health.CheckerFunc(db.PingContext),
		"redis":  health.CheckerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	})

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	mr.Close()
	rec = httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 after redis stops", rec.Code)
	}
}
