// Health Information Harmonizer recognizes medication names in free-form
// questions, resolves them against a curated OTC drug dataset and serves
// harmonized drug information over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "net/http/pprof"

	"github.com/ryoungl/health-information-harmonizer/config"
	"github.com/ryoungl/health-information-harmonizer/data"
	"github.com/ryoungl/health-information-harmonizer/llm"
	"github.com/ryoungl/health-information-harmonizer/logging"
	"github.com/ryoungl/health-information-harmonizer/scheduler"
	"github.com/ryoungl/health-information-harmonizer/server"
)

func main() {
	// .env is optional; the environment itself may carry the config
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithLevel(cfg.LogDir, cfg.SlogLevel())

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	// Initial load is synchronous and fatal: the service must not come up
	// without a catalog
	sched := scheduler.NewScheduler(dataContainer, cfg.DatasetPath)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	model, err := llm.NewClient(cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMAPIBase, cfg.LLMModel,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second)
	if err != nil {
		logging.Error("Failed to configure language model client", "error", err)
		os.Exit(1)
	}
	if !model.Enabled() {
		logging.Warn("LLM_API_KEY not set, serving lexical matching only")
	}

	srv := server.NewServer(cfg, dataContainer, model)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}
}
