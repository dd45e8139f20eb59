package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.temporal.io/sdk/client"

	"github.com/imadezze/Qualip/internal/api"
	"github.com/imadezze/Qualip/internal/audit"
	"github.com/imadezze/Qualip/internal/catalog"
	"github.com/imadezze/Qualip/internal/config"
	"github.com/imadezze/Qualip/internal/logging"
	"github.com/imadezze/Qualip/internal/metrics"
	"github.com/imadezze/Qualip/internal/openai"
	"github.com/imadezze/Qualip/internal/reasoning"
	"github.com/imadezze/Qualip/internal/storage"
	appTemporal "github.com/imadezze/Qualip/internal/temporal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel)

	if err := catalog.Validate(); err != nil {
		log.Fatalf("catalog: %v", err)
	}

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	store, err := storage.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("postgres ping: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	checks := map[string]api.Pinger{"postgres": store}

	var pipeline audit.ReasoningPipeline
	switch cfg.ReasoningBackend {
	case config.BackendTemporal:
		temporalClient, err := client.Dial(client.Options{
			HostPort:  cfg.TemporalAddress,
			Namespace: cfg.TemporalNamespace,
		})
		if err != nil {
			log.Fatalf("connect temporal: %v", err)
		}
		defer temporalClient.Close()

		checks["temporal"] = api.PingFunc(func(ctx context.Context) error {
			_, err := temporalClient.CheckHealth(ctx, &client.CheckHealthRequest{})
			return err
		})
		pipeline = &appTemporal.Pipeline{
			Client:           temporalClient,
			TaskQueue:        cfg.TemporalTaskQueue,
			WorkflowIDPrefix: cfg.WorkflowIDPrefix,
			Logger:           logger,
		}
	default:
		svc := &reasoning.Service{
			LLM:            openai.NewHTTPClient(cfg.OpenAIAPIKey, cfg.OpenAIModel),
			ChatLog:        store,
			OpenAIModel:    cfg.OpenAIModel,
			OpenAITimeout:  time.Duration(cfg.OpenAITimeoutSec) * time.Second,
			OpenAIMaxRetry: cfg.OpenAIMaxRetry,
			Logger:         logger,
		}
		if cfg.TranscriptArchive {
			blob, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
			if err != nil {
				log.Fatalf("connect minio: %v", err)
			}
			svc.Archive = blob
			checks["minio"] = blob
		}
		pipeline = reasoning.NewDirectPipeline(svc)
	}

	orch := audit.New(pipeline, store, logger, metrics.New())
	h := api.NewHandler(cfg, orch, store, checks, logger)
	router := api.NewRouter(h)

	srv := api.NewServer(":"+cfg.HTTPPort, router)

	go func() {
		logger.Info("api listening", "port", cfg.HTTPPort, "backend", cfg.ReasoningBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err.Error())
	}
}
