package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/dutchpay/internal/auth"
	"github.com/mmynk/dutchpay/internal/config"
	"github.com/mmynk/dutchpay/internal/ledger"
	"github.com/mmynk/dutchpay/internal/metrics"
	"github.com/mmynk/dutchpay/internal/middleware"
	"github.com/mmynk/dutchpay/internal/registry"
	"github.com/mmynk/dutchpay/internal/service"
	"github.com/mmynk/dutchpay/internal/storage/sqlite"
	"github.com/mmynk/dutchpay/internal/views"
	"github.com/mmynk/dutchpay/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel)
	if cfg.InsecureSecret() {
		slog.Warn("JWT_SECRET not set, using the development secret")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	categories, err := views.LoadCategoryTable(cfg.CategoriesPath)
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promRegistry)

	reg := registry.New(store)
	led := ledger.New(store, ledger.Config{
		RecordRepayments: cfg.RecordRepayments,
		Views:            views.New(categories),
		Metrics:          m,
		Hook:             ledger.LogHook{},
	})

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	common := []connect.Interceptor{middleware.MetricsInterceptor(m)}
	public := connect.WithInterceptors(append([]connect.Interceptor{middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor()}, common...)...)
	private := connect.WithInterceptors(append([]connect.Interceptor{middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor()}, common...)...)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	authPath, authHandler := service.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, slog.Default()), public)
	r.Handle(authPath+"*", authHandler)

	groupPath, groupHandler := service.NewGroupServiceHandler(service.NewGroupService(reg, store), private)
	r.Handle(groupPath+"*", groupHandler)

	ledgerPath, ledgerHandler := service.NewLedgerServiceHandler(service.NewLedgerService(led, reg, store), private)
	r.Handle(ledgerPath+"*", ledgerHandler)

	r.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{Registry: promRegistry}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// h2c serves HTTP/2 without TLS, which Connect's gRPC protocols need.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "url", "http://localhost:"+cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
