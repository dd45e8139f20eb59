package main

import (
	"context"
	"log"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/imadezze/Qualip/internal/catalog"
	"github.com/imadezze/Qualip/internal/config"
	"github.com/imadezze/Qualip/internal/logging"
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

	store, err := storage.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

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
	}

	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		log.Fatalf("connect temporal: %v", err)
	}
	defer temporalClient.Close()

	activities := &appTemporal.Activities{Reasoner: svc}

	w := worker.New(temporalClient, cfg.TemporalTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(appTemporal.CriterionReasoningWorkflow, workflow.RegisterOptions{Name: appTemporal.CriterionReasoningWorkflowName})
	w.RegisterActivity(activities.CompleteCriterionActivity)
	w.RegisterActivity(activities.RecordExchangeActivity)

	logger.Info("worker running", "task_queue", cfg.TemporalTaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker stopped with error: %v", err)
	}
}
