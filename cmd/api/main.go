package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/workoutlog/internal/api"
	"example.com/workoutlog/internal/auth"
	"example.com/workoutlog/internal/bootstrap"
	"example.com/workoutlog/internal/config"
	httptransport "example.com/workoutlog/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	journal, err := bootstrap.OpenJournal(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("failed to open journal: %v", err)
	}
	defer journal.Close()

	var consumers sync.WaitGroup
	if cfg.IngestTranscripts {
		bootstrap.StartTranscriptConsumers(ctx, cfg, journal.Service, &consumers)
	}

	handler := api.NewHandler(journal.Service, journal.Catalog)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	authMiddleware := auth.NewMiddleware(
		auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer},
		auth.SkipPaths("/healthz", "/metrics"),
	)
	requestLog := log.New(log.Writer(), "[http] ", log.LstdFlags)

	server := httptransport.NewServer(
		httptransport.DefaultServerConfig(cfg.HTTPAddress),
		httptransport.RequestLogger(requestLog, httptransport.CORS(cfg.CORSOrigin, authMiddleware.Wrap(mux))),
	)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("workoutlog api listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	consumers.Wait()
}
