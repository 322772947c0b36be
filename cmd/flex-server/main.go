// Package main runs the conversion HTTP server.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pigeonworks-llc/flex-convert/pkg/api"
	"github.com/pigeonworks-llc/flex-convert/pkg/config"
	"github.com/pigeonworks-llc/flex-convert/pkg/schema"
)

const defaultPort = "8080"

func main() {
	// Setup structured JSON logging.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	inputSchema, err := schema.LoadInputSchema(cfg.Documents.InputSchema)
	if err != nil {
		slog.Error("failed to load input schema", "error", err)
		os.Exit(1)
	}
	outputSchema, err := schema.LoadOutputSchema(cfg.Documents.OutputSchema)
	if err != nil {
		slog.Error("failed to load output schema", "error", err)
		os.Exit(1)
	}
	rules, err := schema.LoadProcessingRules(cfg.Documents.ProcessingRules)
	if err != nil {
		slog.Error("failed to load processing rules", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "processing_name", rules.ProcessingName)

	convertHandler := api.NewConvertHandler(inputSchema, outputSchema, rules, cfg.Strict)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Route("/api/1", func(r chi.Router) {
		r.Post("/convert", convertHandler.Convert)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("server listening", "port", port)
	if err := server.ListenAndServe(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
