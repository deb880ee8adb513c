package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// ============================================================================
// PreventDuplicateInvoke
// ============================================================================

func dedupeHandler(window time.Duration) http.Handler {
	return PreventDuplicateInvoke(window)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
}

func invoke(h http.Handler, remoteAddr, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPreventDuplicateInvoke(t *testing.T) {
	t.Run("second request inside the window is rejected", func(t *testing.T) {
		h := dedupeHandler(time.Minute)

		if rec := invoke(h, "10.0.0.1:5000", "/usersBulkUpload"); rec.Code != http.StatusCreated {
			t.Fatalf("first request status = %d", rec.Code)
		}
		rec := invoke(h, "10.0.0.1:5001", "/usersBulkUpload") // same IP, new port
		if rec.Code != http.StatusConflict {
			t.Fatalf("duplicate status = %d, want 409", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "UPL003") {
			t.Errorf("body = %s", rec.Body)
		}
	})

	t.Run("different clients do not collide", func(t *testing.T) {
		h := dedupeHandler(time.Minute)

		if rec := invoke(h, "10.0.0.1:5000", "/usersBulkUpload"); rec.Code != http.StatusCreated {
			t.Fatalf("first client status = %d", rec.Code)
		}
		if rec := invoke(h, "10.0.0.2:5000", "/usersBulkUpload"); rec.Code != http.StatusCreated {
			t.Errorf("second client status = %d, want 201", rec.Code)
		}
	})

	t.Run("window expiry allows a retry", func(t *testing.T) {
		h := dedupeHandler(30 * time.Millisecond)

		if rec := invoke(h, "10.0.0.1:5000", "/usersBulkUpload"); rec.Code != http.StatusCreated {
			t.Fatalf("first request status = %d", rec.Code)
		}
		time.Sleep(50 * time.Millisecond)
		if rec := invoke(h, "10.0.0.1:5000", "/usersBulkUpload"); rec.Code != http.StatusCreated {
			t.Errorf("retry after window status = %d, want 201", rec.Code)
		}
	})

	t.Run("window counts from request completion", func(t *testing.T) {
		slow := PreventDuplicateInvoke(40 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(60 * time.Millisecond)
			w.WriteHeader(http.StatusCreated)
		}))

		if rec := invoke(slow, "10.0.0.1:5000", "/usersBulkUpload"); rec.Code != http.StatusCreated {
			t.Fatalf("first request status = %d", rec.Code)
		}
		// The handler ran longer than the window, but finish() refreshed the
		// timestamp, so an immediate retry is still a duplicate.
		if rec := invoke(slow, "10.0.0.1:5000", "/usersBulkUpload"); rec.Code != http.StatusConflict {
			t.Errorf("immediate retry status = %d, want 409", rec.Code)
		}
	})
}

func TestInvokeGuardEviction(t *testing.T) {
	g := &invokeGuard{window: 10 * time.Millisecond, seen: make(map[string]time.Time)}

	if !g.tryBegin("a /upload") {
		t.Fatal("fresh key rejected")
	}
	g.finish("a /upload")
	time.Sleep(20 * time.Millisecond)

	// A later invoke from another key sweeps the stale entry.
	if !g.tryBegin("b /upload") {
		t.Fatal("fresh key rejected")
	}
	g.mu.Lock()
	_, stale := g.seen["a /upload"]
	g.mu.Unlock()
	if stale {
		t.Error("stale entry survived the sweep")
	}
}
