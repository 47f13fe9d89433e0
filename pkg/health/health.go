// Package health exposes liveness and readiness endpoints backed by
// periodically executed checks.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// CheckFunc probes a single dependency or runtime property. A nil return
// means healthy.
type CheckFunc func(ctx context.Context) error

// Handler runs registered checks on an interval and serves their aggregated
// status over HTTP.
type Handler struct {
	interval time.Duration

	mu     sync.RWMutex
	checks map[string]CheckFunc
	status map[string]error
	ready  bool
}

// NewHandler creates a Handler that re-evaluates its checks every interval.
func NewHandler(interval time.Duration) *Handler {
	return &Handler{
		interval: interval,
		checks:   make(map[string]CheckFunc),
		status:   make(map[string]error),
	}
}

// AddCheck registers a named check. Not safe to call after Start.
func (h *Handler) AddCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// SetReady flips the readiness flag. The server calls this once startup
// completes and again during shutdown.
func (h *Handler) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// Start runs the periodic check loop until ctx is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.run(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.run(ctx)
		}
	}
}

func (h *Handler) run(ctx context.Context) {
	h.mu.RLock()
	checks := make(map[string]CheckFunc, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	h.mu.RUnlock()

	status := make(map[string]error, len(checks))
	for name, check := range checks {
		err := check(ctx)
		if err != nil {
			zctx.From(ctx).Warn("Health check failed",
				zap.String("check", name),
				zap.Error(err),
			)
		}
		status[name] = err
	}

	h.mu.Lock()
	h.status = status
	h.mu.Unlock()
}

func (h *Handler) healthy() (map[string]error, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := make(map[string]error, len(h.status))
	ok := true
	for name, err := range h.status {
		status[name] = err
		if err != nil {
			ok = false
		}
	}
	return status, ok
}

// LiveEndpoint reports process liveness: all registered checks must pass.
func (h *Handler) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	status, ok := h.healthy()
	writeStatus(w, status, ok)
}

// ReadyEndpoint reports readiness: checks must pass and the ready flag must
// be set.
func (h *Handler) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	status, ok := h.healthy()

	h.mu.RLock()
	ready := h.ready
	h.mu.RUnlock()

	writeStatus(w, status, ok && ready)
}

func writeStatus(w http.ResponseWriter, status map[string]error, ok bool) {
	code := http.StatusOK
	if !ok {
		code = http.StatusServiceUnavailable
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("status", func(e *jx.Encoder) {
			if ok {
				e.Str("ok")
			} else {
				e.Str("unavailable")
			}
		})
		e.Field("checks", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				for name, err := range status {
					e.Field(name, func(e *jx.Encoder) {
						if err != nil {
							e.Str(err.Error())
						} else {
							e.Str("ok")
						}
					})
				}
			})
		})
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}
