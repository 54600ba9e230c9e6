package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type tenantStore struct {
	byHash map[string]*domain.Tenant
}

func (s *tenantStore) Create(ctx context.Context, t *domain.Tenant) error { return nil }

func (s *tenantStore) GetByAPIKeyHash(ctx context.Context, hash string) (*domain.Tenant, error) {
	if t, ok := s.byHash[hash]; ok {
		return t, nil
	}
	return nil, errors.New("not found")
}

func TestAPIKeyAuth(t *testing.T) {
	tenant := &domain.Tenant{ID: uuid.New(), Name: "lab"}
	ts := &tenantStore{byHash: map[string]*domain.Tenant{HashAPIKey("tb_secret"): tenant}}

	var seen *domain.Tenant
	h := APIKeyAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TenantFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		value  string
		status int
	}{
		{"bearer", "Authorization", "Bearer tb_secret", http.StatusOK},
		{"lowercase scheme", "Authorization", "bearer tb_secret", http.StatusOK},
		{"api key header", APIKeyHeader, "tb_secret", http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Authorization", "Basic tb_secret", http.StatusUnauthorized},
		{"unknown key", "Authorization", "Bearer tb_other", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/v1/stories/x", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && seen != tenant {
				t.Fatalf("tenant not attached to context")
			}
		})
	}
}

func TestRateLimiter_CleanupEvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") {
		t.Fatal("first request must pass")
	}
	if rl.Allow("a") {
		t.Fatal("second immediate request must be limited")
	}
	now = now.Add(5 * time.Minute)
	rl.Allow("b")

	if n := rl.Cleanup(time.Minute); n != 1 {
		t.Fatalf("expected one tracked client after cleanup, got %d", n)
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestRequestID(t *testing.T) {
	var ctxID string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if ctxID != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("request id not propagated: ctx=%q header=%q", ctxID, rec.Header().Get(RequestIDHeader))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(ctxID); err != nil {
		t.Fatalf("generated request id %q is not a uuid", ctxID)
	}
}

func TestLogging_RecordsTenantAndLevel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tenant := &domain.Tenant{ID: uuid.New()}
	ts := &tenantStore{byHash: map[string]*domain.Tenant{HashAPIKey("k"): tenant}}

	h := Logging(zap.New(core))(APIKeyAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))
	req := httptest.NewRequest(http.MethodGet, "/v1/batches/x", nil)
	req.Header.Set("Authorization", "Bearer k")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != zap.WarnLevel {
		t.Errorf("level = %s, want warn", e.Level)
	}
	if got := e.ContextMap()["tenant_id"]; got != tenant.ID.String() {
		t.Errorf("tenant_id = %v, want %s", got, tenant.ID)
	}
	if got := e.ContextMap()["status"]; got != int64(http.StatusNotFound) {
		t.Errorf("status = %v, want 404", got)
	}
}

func TestMetrics(t *testing.T) {
	m := &Metrics{}
	ok := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	fail := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	fail.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	snap := m.Snapshot()
	if snap.Requests != 2 || snap.Errors != 1 || snap.InFlight != 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
