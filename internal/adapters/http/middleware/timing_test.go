package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resiplan/internal/adapters/http/perf"
)

// TestTimingEmitsEntry verifies that a request entry is recorded.
func TestTimingEmitsEntry(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/checklist", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimingSkipsStatic verifies static assets are excluded from timing.
func TestTimingSkipsStatic(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/static/style.css", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0 (static excluded)", collector.TotalRecorded())
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTimingCapturesStatusCode verifies the status code is captured.
func TestTimingCapturesStatusCode(t *testing.T) {
	collector := perf.NewCollector(1)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest("GET", "/missing", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "GET /missing" {
		t.Errorf("recorded paths = %+v, want one GET /missing entry", snap.SlowestPaths)
	}
}

// TestTimingNilCollector verifies middleware works without a collector.
func TestTimingNilCollector(t *testing.T) {
	handler := Timing(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/checklist", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTimingPoolNoStateLeak verifies that statusWriter pool reuse does not
// leak status codes between requests.
func TestTimingPoolNoStateLeak(t *testing.T) {
	collector := perf.NewCollector(100)

	handler500 := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	rr1 := httptest.NewRecorder()
	handler500.ServeHTTP(rr1, httptest.NewRequest("GET", "/api/fail", nil))
	if rr1.Code != 500 {
		t.Errorf("request 1 status = %d, want 500", rr1.Code)
	}

	// Second request writes a body without WriteHeader (implicit 200).
	// A leaky pool would report 500 here.
	handler200 := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rr2 := httptest.NewRecorder()
	handler200.ServeHTTP(rr2, httptest.NewRequest("GET", "/api/ok", nil))
	if rr2.Code != 200 {
		t.Errorf("request 2 status = %d, want 200 (pool must not leak 500)", rr2.Code)
	}
}

// TestSessionStoreLifecycle tests create/get/delete of sessions.
func TestSessionStoreLifecycle(t *testing.T) {
	ss := NewSessionStore()
	token, err := ss.Create("a1", "ana@example.com", "operator")
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	sess, ok := ss.Get(token)
	if !ok || sess.AccountID != "a1" || sess.Role != "operator" {
		t.Errorf("Get = (%+v, %v), want stored session", sess, ok)
	}

	ss.Delete(token)
	if _, ok := ss.Get(token); ok {
		t.Error("session still retrievable after Delete")
	}

	if _, ok := ss.Get("bogus"); ok {
		t.Error("Get(bogus) returned a session")
	}
}

// TestRequireRole tests role gating for admin-only pages.
func TestRequireRole(t *testing.T) {
	handler := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		session    *Session
		wantStatus int
	}{
		{"no session", nil, http.StatusSeeOther},
		{"operator blocked", &Session{AccountID: "a1", Role: "operator"}, http.StatusForbidden},
		{"admin allowed", &Session{AccountID: "a2", Role: "admin"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin/residencias", nil)
			if tt.session != nil {
				req = req.WithContext(ContextWithSession(req.Context(), *tt.session))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

// TestRateLimiterExhaustion tests that the bucket empties and refills.
func TestRateLimiterExhaustion(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)
	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d denied within limit", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request allowed after bucket exhausted")
	}
	// Other IPs are unaffected.
	if !rl.Allow("10.0.0.2") {
		t.Error("unrelated IP denied")
	}
}

// BenchmarkTiming measures per-request overhead.
func BenchmarkTiming(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/api/bench", nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
	}
}
