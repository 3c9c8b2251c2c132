package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/fitcoach/internal/api"
	"example.com/fitcoach/internal/auth"
	"example.com/fitcoach/internal/config"
	"example.com/fitcoach/internal/domain"
	"example.com/fitcoach/internal/events"
	persistence "example.com/fitcoach/internal/persistence/postgres"
	httptransport "example.com/fitcoach/internal/transport/http"
	"example.com/fitcoach/internal/users"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := persistence.NewRepository(pool)
	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.ActivityTopic)
	defer publisher.Close()

	userClient := users.NewClient(cfg.UserServiceURL)

	service := domain.NewService(repo, repo, userClient, publisher,
		domain.WithPublishFailurePolicy(cfg.PublishPolicy))

	handler := api.NewHandler(service)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	cors := api.CORS(cfg.CORSOrigin)
	requestLogger := api.RequestLogger(log.Default())
	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})

	// CORS sits outermost so browser preflights are answered before auth.
	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, cors(authMiddleware.Wrap(requestLogger(mux))))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("fitcoach api listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
