package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/db/bunx"
	"github.com/sm1l43s/movies/internal/proxy"
	"github.com/sm1l43s/movies/internal/repository"
	"github.com/sm1l43s/movies/internal/server"
	"github.com/sm1l43s/movies/internal/services/catalog"
	"github.com/sm1l43s/movies/internal/services/iam"
	"github.com/sm1l43s/movies/internal/services/validation"
	"github.com/sm1l43s/movies/internal/telemetry"
)

const (
	schemaCacheSize  = 32
	shutdownTimeout  = 10 * time.Second
	baseWriteTimeout = 15 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the movies API server",
	Long:  `Starts the HTTP server with the REST API, the /proxy relay when an upstream is configured, /health and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() { _ = bunx.Close(db) }()
		logger.WithField("dialect", db.Dialect().Name()).Info("connected to database")

		metrics := telemetry.NewMetrics()
		if err := metrics.RegisterDB(db.DB, "movies"); err != nil {
			return fmt.Errorf("register database metrics: %w", err)
		}

		// Initialize repositories
		userRepo := repository.NewBunUserRepository(db)
		privilegeRepo := repository.NewBunPrivilegeRepository(db)

		tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Validity)
		if err != nil {
			return fmt.Errorf("configure tokens: %w", err)
		}

		// Initialize services
		iamService, err := iam.NewService(iam.Dependencies{
			Users:      userRepo,
			Privileges: privilegeRepo,
			Tokens:     tokens,
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("create IAM service: %w", err)
		}
		catalogService := catalog.NewService(catalog.Dependencies{
			Movies:      repository.NewBunMovieRepository(db),
			Persons:     repository.NewBunPersonRepository(db),
			Reviews:     repository.NewBunReviewRepository(db),
			Genres:      repository.NewGenreRepository(db),
			Countries:   repository.NewCountryRepository(db),
			Professions: repository.NewProfessionRepository(db),
			Types:       repository.NewMovieTypeRepository(db),
			Logger:      logger,
		})
		validator, err := validation.NewSchemaValidator(schemaCacheSize)
		if err != nil {
			return fmt.Errorf("create validator: %w", err)
		}

		writeTimeout := baseWriteTimeout
		var relay *proxy.Relay
		if cfg.Proxy.Enabled() {
			policy := proxy.RetryPolicy{
				MaxAttempts:  cfg.Proxy.MaxAttempts,
				InitialDelay: cfg.Proxy.InitialDelay,
				Multiplier:   cfg.Proxy.Multiplier,
			}
			relay, err = proxy.NewRelay(cfg.Proxy.UpstreamURL, policy, cfg.Proxy.Timeout,
				proxy.WithLogger(logger),
				proxy.WithMetrics(metrics),
			)
			if err != nil {
				return fmt.Errorf("configure proxy relay: %w", err)
			}
			// A relay call may sleep through its whole backoff schedule.
			writeTimeout += relay.Policy().MaxDuration(cfg.Proxy.Timeout)
			logRelayEnabled(logger, relay)
		}

		corsOpts := server.DefaultCORSOptions()
		if len(cfg.CORS.AllowedOrigins) > 0 {
			corsOpts.AllowedOrigins = cfg.CORS.AllowedOrigins
		}

		healthHandler := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			w.Header().Set("Content-Type", "application/json")
			if err := db.PingContext(ctx); err != nil {
				logger.WithError(err).Warn("health check: database unreachable")
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintf(w, `{"status":"degraded","proxy_enabled":%t}`, relay != nil)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `{"status":"ok","proxy_enabled":%t}`, relay != nil)
		}

		handler, err := server.NewH2CHandler(server.RouterOptions{
			IAM:           iamService,
			Catalog:       catalogService,
			Validator:     validator,
			Relay:         relay,
			Metrics:       metrics,
			Logger:        logger,
			CORSOptions:   &corsOpts,
			HealthHandler: healthHandler,
		})
		if err != nil {
			return fmt.Errorf("build router: %w", err)
		}

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
			ErrorLog:     newServerErrorLog(logger),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.WithField("addr", cfg.ServerAddr).Info("starting server")
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.WithField("signal", sig.String()).Info("shutting down gracefully")

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			logger.Info("server stopped")
			return nil
		}
	},
}

// logRelayEnabled reports the relay settings. The upstream may carry
// credentials, so only its redacted form is logged.
func logRelayEnabled(l logrus.FieldLogger, relay *proxy.Relay) {
	l.WithFields(logrus.Fields{
		"upstream": relay.Upstream(),
		"attempts": relay.Policy().MaxAttempts,
		"delays":   relay.Policy().Schedule(),
	}).Info("proxy relay enabled")
}

// newServerErrorLog routes net/http's internal errors through logrus.
func newServerErrorLog(l *logrus.Logger) *log.Logger {
	return log.New(l.WriterLevel(logrus.WarnLevel), "", 0)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
