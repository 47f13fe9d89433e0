package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/laxmiresto/website/internal/handler"
	"github.com/laxmiresto/website/internal/menu"
	"github.com/laxmiresto/website/internal/order"
	"github.com/laxmiresto/website/internal/session"
	"github.com/laxmiresto/website/internal/web"
	"github.com/laxmiresto/website/pkg/health"
	"github.com/laxmiresto/website/pkg/httpmiddleware"
)

// maxLiveSessions bounds the session registry before the health check
// reports unhealthy. Each session is a cart plus metadata, so a count
// anywhere near this signals an eviction failure rather than real load.
const maxLiveSessions = 100_000

// sessionCountCheck reports unhealthy when the session registry grows past
// threshold.
func sessionCountCheck(sessions *session.Manager, threshold int) health.CheckFunc {
	return func(_ context.Context) error {
		if n := sessions.Len(); n > threshold {
			return errors.Errorf("session count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	catalog, err := menu.Load()
	if err != nil {
		return errors.Wrap(err, "load menu")
	}
	lg.Info("Menu loaded", zap.Int("items", catalog.Len()))

	business := order.Business{
		Name:          cfg.Business.Name,
		Tagline:       cfg.Business.Tagline,
		Address:       cfg.Business.Address,
		WhatsAppPhone: cfg.Business.WhatsAppPhone,
	}

	sessions := session.NewManager(cfg.Session.TTL)
	sessions.StartCleanup(ctx, cfg.Session.CleanupInterval)

	page, err := web.NewPage()
	if err != nil {
		return errors.Wrap(err, "parse templates")
	}

	// Health check service.
	healthSvc := health.NewHandler(10 * time.Second)
	healthSvc.AddCheck("goroutines", health.GoroutineCountCheck(10000))
	healthSvc.AddCheck("sessions", sessionCountCheck(sessions, maxLiveSessions))
	go healthSvc.Start(ctx)
	healthSvc.SetReady(true)

	h := handler.NewHandler(catalog, sessions, order.NewAssembler(business), business, page)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Routes(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("resto-web", m),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
