package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/feichai0017/text-extractor/internal/service/extraction"
	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/queue"
)

// ExtractWorker consumes extraction tasks and hands them to the service.
type ExtractWorker struct {
	BaseWorker
	service extraction.Service
}

func NewExtractWorker(cfg *Config, svc extraction.Service, log logger.Logger) (*ExtractWorker, error) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
		},
	)

	w := &ExtractWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		service: svc,
	}

	w.mux.HandleFunc(queue.TaskTypeExtractText, w.handleExtractText)
	return w, nil
}

func (w *ExtractWorker) handleExtractText(ctx context.Context, t *asynq.Task) error {
	var task queue.Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("Failed to unmarshal task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	w.logger.Info("Processing extraction task",
		logger.String("taskId", task.ID),
		logger.String("filename", task.Payload.Filename),
	)

	if task.ID == "" || task.Payload.FileID == "" {
		return fmt.Errorf("invalid task data: missing required fields")
	}

	return w.service.HandleExtraction(ctx, &task)
}

func (w *ExtractWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
