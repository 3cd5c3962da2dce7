package cli

import (
	"context"
	"errors"
	"net/http"

	"contactnorm/internal/contacts/handler"
	"contactnorm/internal/contacts/repository"
	"contactnorm/internal/contacts/service"
	"contactnorm/pkg/config"
	"contactnorm/pkg/middleware"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port  string
		mongo bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the normalize HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("port") {
					cfg.Port = port
				}
			})
			if err != nil {
				return err
			}
			cfg.LogConfiguration()

			ctx := cmd.Context()

			var repo repository.ContactRepository
			var db handler.Pinger
			if mongo {
				cfg.SetMongo()
				defer cfg.GracefulShutdown()

				r := repository.NewMongoContactRepository(cfg)
				if err := r.EnsureIndexes(ctx); err != nil {
					return err
				}
				repo, db = r, cfg.Client.Mongo
			}

			limiter := middleware.NewClientRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, middleware.RemoteIP, cfg.Log)
			defer limiter.Stop()

			contacts := handler.NewContactHandler(service.NewFromConfig(cfg), repo, cfg.Log)
			health := handler.NewHealthHandler(db, cfg.Log)

			server := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      handler.NewRouter(cfg, contacts, health, limiter),
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
				IdleTimeout:  cfg.IdleTimeout,
			}
			cfg.Log.Info("HTTP server configured", "port", cfg.Port, "persistence", mongo)

			return runServer(ctx, cfg, server)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", config.DefaultPort, "listen port")
	cmd.Flags().BoolVar(&mongo, "mongo", false, "connect to MongoDB ($MONGO_URI) for persistence and readiness")
	return cmd
}

// runServer serves until ctx is cancelled, then drains in-flight requests
// for at most ShutdownTimeout.
func runServer(ctx context.Context, cfg *config.Config, server *http.Server) error {
	serverErrors := make(chan error, 1)

	go func() {
		cfg.Log.Info("Starting HTTP server", "address", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		cfg.Log.Info("Shutdown signal received", "cause", context.Cause(ctx))
		return gracefulShutdown(cfg, server)
	}
}

func gracefulShutdown(cfg *config.Config, server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		cfg.Log.Error("Server shutdown failed", "error", err)
		if closeErr := server.Close(); closeErr != nil {
			return closeErr
		}
		return err
	}

	cfg.Log.Info("Server stopped gracefully")
	return nil
}
