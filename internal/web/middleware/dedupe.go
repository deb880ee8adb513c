package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/candidatehub/userimport/internal/logging"
)

// PreventDuplicateInvoke rejects a second request to the same path from the
// same client IP within the window. Double-clicked upload buttons and
// impatient retries would otherwise race the same CSV through the pipeline
// and burn one batch on the insert-time unique constraint.
func PreventDuplicateInvoke(window time.Duration) func(http.Handler) http.Handler {
	if window <= 0 {
		window = 10 * time.Second
	}
	guard := &invokeGuard{
		window: window,
		seen:   make(map[string]time.Time),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !guard.tryBegin(key) {
				logging.FromContext(r.Context()).Warn("duplicate invoke rejected",
					"path", r.URL.Path, "ip", r.RemoteAddr)
				http.Error(w, `{"error":"an identical upload is already in progress","code":"UPL003"}`, http.StatusConflict)
				return
			}
			defer guard.finish(key)

			next.ServeHTTP(w, r)
		})
	}
}

type invokeGuard struct {
	window time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

// tryBegin records the invoke unless one for the same key is in flight or
// finished less than window ago.
func (g *invokeGuard) tryBegin(key string) bool {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if last, ok := g.seen[key]; ok && now.Sub(last) < g.window {
		return false
	}
	g.seen[key] = now

	// Drop stale entries so the map does not grow with client churn.
	for k, t := range g.seen {
		if now.Sub(t) >= g.window && k != key {
			delete(g.seen, k)
		}
	}
	return true
}

// finish refreshes the timestamp so the window counts from completion.
func (g *invokeGuard) finish(key string) {
	g.mu.Lock()
	g.seen[key] = time.Now()
	g.mu.Unlock()
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return host + " " + r.URL.Path
}
