// server/cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"medcamp-api-server/config"
	"medcamp-api-server/internal/api/routes"
	"medcamp-api-server/internal/auth"
	"medcamp-api-server/internal/cache"
	"medcamp-api-server/internal/database"
	"medcamp-api-server/internal/logger"
	"medcamp-api-server/internal/media"
	"medcamp-api-server/internal/payment"
	"medcamp-api-server/internal/socket"
	"medcamp-api-server/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("API server exited")
	}
}

// run owns every resource it opens; returning instead of exiting lets the
// deferred cleanup run on all paths.
func run() error {
	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	logger.Init(cfg.App.Name, cfg.App.Env)
	if cfg.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. MongoDB
	mongoClient, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect MongoDB")
		}
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	docs := store.NewMongoStore(db)
	if err := database.SeedAdmin(ctx, docs.Collection(database.UsersCollection), cfg.Seed); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	deps := routes.Dependencies{
		Store:  docs,
		Tokens: auth.NewTokenService(cfg.JWT.Secret),
		Hub:    socket.NewHub(),
	}

	// 3. Optional collaborators
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close Redis")
			}
		}()
		deps.Cache = cache.NewListingCache(redisClient, cfg.Redis.TTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Camp listing cache enabled")
	}

	uploader, err := media.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize media uploader: %w", err)
	}
	if uploader != nil {
		deps.Uploader = uploader
		log.Info().Str("provider", cfg.Media.Provider).Msg("Image uploads enabled")
	}

	if cfg.Stripe.SecretKey != "" {
		deps.Payments = payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.Currency)
	} else {
		log.Warn().Msg("STRIPE_SECRET_KEY not set, payment intents disabled")
	}

	// 4. Serve until a shutdown signal arrives
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.SetupRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("port", cfg.Server.Port).Msg("Starting API server")
	return serve(ctx, srv)
}

// serve runs srv until ctx is cancelled or the listener fails. A listener
// failure is returned rather than fatal so the caller's cleanup still runs.
func serve(ctx context.Context, srv *http.Server) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to run server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
