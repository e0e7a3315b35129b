package extraction

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/feichai0017/text-extractor/internal/models"
	"github.com/feichai0017/text-extractor/pkg/queue"
)

// Service is the application surface behind the HTTP handlers and the
// worker. SubmitFile stores the upload and queues a task; HandleExtraction
// is the worker-side counterpart that actually runs the pipeline.
type Service interface {
	SubmitFile(ctx context.Context, file multipart.File, header *multipart.FileHeader, spec models.ExtractionSpec) (*models.ExtractionTask, error)
	SubmitBatch(ctx context.Context, files []*multipart.FileHeader, spec models.ExtractionSpec) ([]*models.ExtractionTask, error)
	GetStatus(ctx context.Context, taskID string) (*models.ExtractionTask, error)
	GetResult(ctx context.Context, taskID string) (io.ReadCloser, error)
	CancelTask(ctx context.Context, taskID string) error
	HandleExtraction(ctx context.Context, task *queue.Task) error
}
