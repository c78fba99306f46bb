package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"workflowmonk/internal/config"
	"workflowmonk/internal/domain/intake"
	"workflowmonk/internal/domain/wizard"
	"workflowmonk/internal/middleware"
	"workflowmonk/internal/pkg/jwt"
	"workflowmonk/internal/pkg/logger"
	"workflowmonk/internal/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// Serve returns the command running the REST and websocket transports.
func Serve() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wizard over HTTP and websocket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides HTTP_ADDR)")
	return cmd
}

type app struct {
	router   *gin.Engine
	sessions *intake.Registry
}

func newApp(cfg *config.Config, log *zap.Logger, reg *prometheus.Registry) *app {
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.NewWizard(reg)
	opts := append(cfg.WizardOptions(), wizard.WithObserver(m))
	tokens := jwt.New(cfg.StateTokenSecret, cfg.StateTokenTTL)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	v1 := r.Group("/api/v1")
	intake.RegisterRoutes(v1, intake.NewHandler(tokens, log, opts...), tokens)

	sessions := intake.NewRegistry(m)
	ws := intake.NewWSHandler(sessions, middleware.AllowedOrigin(cfg.CORSAllowedOrigins), log, opts...)
	intake.RegisterWSRoutes(r, ws)

	return &app{router: r, sessions: sessions}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a := newApp(cfg, log, reg)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := a.sessions.CloseAll(shutdownCtx); err != nil {
		log.Warn("websocket sessions still open", zap.Int("count", a.sessions.Len()), zap.Error(err))
	}
	return nil
}
