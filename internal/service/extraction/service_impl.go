package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	cfg "github.com/feichai0017/text-extractor/config"
	"github.com/feichai0017/text-extractor/internal/extractor"
	"github.com/feichai0017/text-extractor/internal/models"
	"github.com/feichai0017/text-extractor/internal/pipeline"
	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/queue"
	"github.com/feichai0017/text-extractor/pkg/shell"
	"github.com/feichai0017/text-extractor/pkg/storage"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

type ExtractionService struct {
	pipeline *pipeline.Pipeline
	queue    queue.Queue
	storage  storage.Storage
	logger   logger.Logger
	config   *cfg.ServiceConfig
}

// NewService wires an extraction service from its collaborators.
func NewService(
	p *pipeline.Pipeline,
	q queue.Queue,
	store storage.Storage,
	log logger.Logger,
	sc *cfg.ServiceConfig,
) Service {
	return &ExtractionService{
		pipeline: p,
		queue:    q,
		storage:  store,
		logger:   log,
		config:   sc,
	}
}

// GetService builds the service with the default backends.
func GetService(log logger.Logger) (Service, error) {
	sc := cfg.GetServiceConfig()

	store, err := storage.NewStorage(storage.StorageType(sc.StorageBackend), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	q, err := queue.GetQueue()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize queue: %w", err)
	}

	return NewService(pipeline.New(log), q, store, log, sc), nil
}

// SubmitFile validates and stores a single upload and queues its extraction.
func (s *ExtractionService) SubmitFile(
	ctx context.Context,
	file multipart.File,
	header *multipart.FileHeader,
	spec models.ExtractionSpec,
) (*models.ExtractionTask, error) {
	s.logger.Info("Submitting file for extraction",
		logger.String("filename", header.Filename),
		logger.Int64("size", header.Size),
		logger.String("encoding", spec.Encoding),
	)

	if err := s.validateFile(header); err != nil {
		s.logger.Error("File validation failed",
			logger.String("filename", header.Filename),
			logger.Error(err),
		)
		return nil, err
	}

	// The output encoding is validated here at the service boundary; the
	// pipeline itself trusts the name until the encode stage.
	encoding := spec.Encoding
	if encoding == "" {
		encoding = s.config.DefaultEncoding
	}
	if _, err := textenc.Lookup(encoding); err != nil {
		return nil, err
	}

	// Copy the options so batch submissions sharing one spec never write
	// to the same map. The configured OCR language applies when the
	// caller did not pick one.
	opts := make(map[string]string, len(spec.Options)+1)
	for k, v := range spec.Options {
		opts[k] = v
	}
	if opts["lang"] == "" && s.config.TesseractLang != "" {
		opts["lang"] = s.config.TesseractLang
	}

	taskID := uuid.New().String()

	task := &models.ExtractionTask{
		ID:        taskID,
		Status:    models.StatusPending,
		Type:      queue.TaskTypeExtractText,
		Progress:  0,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Metadata: map[string]string{
			"filename": header.Filename,
			"size":     fmt.Sprintf("%d", header.Size),
			"type":     filepath.Ext(header.Filename),
			"encoding": encoding,
		},
	}

	// The stored key keeps the original extension: extractor selection on
	// the worker side goes by it.
	fileID := fmt.Sprintf("upload:%s%s", taskID, strings.ToLower(filepath.Ext(header.Filename)))
	if _, err := s.storage.Store(ctx, file, fileID); err != nil {
		s.logger.Error("Failed to store upload",
			logger.String("filename", header.Filename),
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	queueTask := &queue.Task{
		ID:   taskID,
		Type: task.Type,
		Payload: queue.ExtractPayload{
			FileID:   fileID,
			Filename: header.Filename,
			Size:     header.Size,
			Encoding: encoding,
			Options:  opts,
		},
		Metadata:  task.Metadata,
		CreatedAt: task.CreatedAt,
	}

	if err := s.queue.Enqueue(ctx, queueTask); err != nil {
		s.logger.Error("Failed to enqueue task",
			logger.String("taskId", taskID),
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	if err := s.queue.SaveStatus(ctx, &queue.TaskStatus{
		TaskID:    taskID,
		Status:    "pending",
		StartedAt: time.Now(),
	}); err != nil {
		s.logger.Error("Failed to save initial status",
			logger.String("taskId", taskID),
			logger.Error(err),
		)
	}

	s.logger.Info("Extraction task created",
		logger.String("taskId", taskID),
		logger.String("filename", header.Filename),
	)

	return task, nil
}

// SubmitBatch submits several files concurrently under one spec.
func (s *ExtractionService) SubmitBatch(ctx context.Context, files []*multipart.FileHeader, spec models.ExtractionSpec) ([]*models.ExtractionTask, error) {
	tasks := make([]*models.ExtractionTask, 0, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)

	for _, header := range files {
		header := header
		g.Go(func() error {
			file, err := header.Open()
			if err != nil {
				return fmt.Errorf("failed to open file %s: %w", header.Filename, err)
			}
			defer file.Close()

			task, err := s.SubmitFile(ctx, file, header, spec)
			if err != nil {
				return fmt.Errorf("failed to submit file %s: %w", header.Filename, err)
			}

			mu.Lock()
			tasks = append(tasks, task)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return tasks, err
	}

	return tasks, nil
}

// HandleExtraction runs on the worker: it fetches the stored upload to a
// scratch file, runs the pipeline, and stores the encoded result. The
// scratch file is removed on every exit path.
func (s *ExtractionService) HandleExtraction(ctx context.Context, task *queue.Task) error {
	if task == nil || task.Payload.FileID == "" {
		return fmt.Errorf("invalid task: missing payload")
	}

	s.logger.Info("Extracting document",
		logger.String("taskId", task.ID),
		logger.String("filename", task.Payload.Filename),
	)

	reader, err := s.storage.Get(ctx, task.Payload.FileID)
	if err != nil {
		return s.fail(ctx, task, fmt.Errorf("failed to get upload: %w", err))
	}
	defer reader.Close()

	// Pipeline input is a path; spill the object to a scratch file that
	// keeps the original extension.
	scratch, cleanup, err := shell.TempFile("extract-*" + filepath.Ext(task.Payload.FileID))
	if err != nil {
		return s.fail(ctx, task, err)
	}
	defer cleanup()

	if err := spill(scratch, reader); err != nil {
		return s.fail(ctx, task, fmt.Errorf("failed to spool upload: %w", err))
	}

	opts := extractor.Options(task.Payload.Options)
	out, err := s.pipeline.Process(ctx, scratch, task.Payload.Encoding, opts)
	if err != nil {
		return s.fail(ctx, task, err)
	}

	if _, err := s.storage.Store(ctx, bytes.NewReader(out), resultKey(task.ID)); err != nil {
		return s.fail(ctx, task, fmt.Errorf("failed to store result: %w", err))
	}

	s.logger.Info("Extraction completed",
		logger.String("taskId", task.ID),
		logger.Int("bytes", len(out)),
	)

	if err := s.queue.SaveStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		Status:     "completed",
		Progress:   1.0,
		StartedAt:  task.CreatedAt,
		FinishedAt: time.Now(),
	}); err != nil {
		s.logger.Error("Failed to save final status",
			logger.String("taskId", task.ID),
			logger.Error(err),
		)
	}

	return nil
}

// fail records the failure status before surfacing the error to asynq.
func (s *ExtractionService) fail(ctx context.Context, task *queue.Task, err error) error {
	if saveErr := s.queue.SaveStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		Status:     "failed",
		Error:      err.Error(),
		StartedAt:  task.CreatedAt,
		FinishedAt: time.Now(),
	}); saveErr != nil {
		s.logger.Error("Failed to save failure status",
			logger.String("taskId", task.ID),
			logger.Error(saveErr),
		)
	}
	return err
}

// GetStatus returns the current state of a task.
func (s *ExtractionService) GetStatus(ctx context.Context, taskID string) (*models.ExtractionTask, error) {
	status, err := s.queue.GetTaskStatus(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task status: %w", err)
	}

	var taskStatus models.ExtractionStatus
	switch status.Status {
	case "pending":
		taskStatus = models.StatusPending
	case "running", "active":
		taskStatus = models.StatusRunning
	case "completed":
		taskStatus = models.StatusCompleted
	case "failed":
		taskStatus = models.StatusFailed
	default:
		taskStatus = models.StatusPending
	}

	return &models.ExtractionTask{
		ID:        status.TaskID,
		Status:    taskStatus,
		Type:      queue.TaskTypeExtractText,
		Progress:  status.Progress,
		Error:     status.Error,
		Metadata:  make(map[string]string),
		CreatedAt: status.StartedAt,
		UpdatedAt: status.FinishedAt,
	}, nil
}

// GetResult opens the extracted text of a completed task.
func (s *ExtractionService) GetResult(ctx context.Context, taskID string) (io.ReadCloser, error) {
	status, err := s.GetStatus(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if status.Status != models.StatusCompleted {
		return nil, fmt.Errorf("task is not completed: %s", status.Status)
	}

	reader, err := s.storage.Get(ctx, resultKey(taskID))
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	return reader, nil
}

// CancelTask cancels a queued task.
func (s *ExtractionService) CancelTask(ctx context.Context, taskID string) error {
	if err := s.queue.CancelTask(ctx, taskID); err != nil {
		return fmt.Errorf("failed to cancel task: %w", err)
	}

	s.logger.Info("Task cancelled",
		logger.String("taskId", taskID),
	)

	return nil
}

// CleanupBefore removes stored uploads and results older than threshold.
func (s *ExtractionService) CleanupBefore(ctx context.Context, threshold time.Time) error {
	if err := s.storage.CleanupBefore(ctx, threshold); err != nil {
		return fmt.Errorf("failed to cleanup storage: %w", err)
	}

	s.logger.Info("Completed storage cleanup",
		logger.Time("threshold", threshold),
	)

	return nil
}

// validateFile checks upload size and extension against the configuration.
func (s *ExtractionService) validateFile(header *multipart.FileHeader) error {
	if header.Size > s.config.MaxFileSize {
		return fmt.Errorf("file size exceeds maximum limit of %d bytes", s.config.MaxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, t := range s.config.AllowedTypes {
		if t == ext {
			return nil
		}
	}
	return fmt.Errorf("unsupported file type: %s", ext)
}

func resultKey(taskID string) string {
	return fmt.Sprintf("result:%s", taskID)
}

func spill(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
