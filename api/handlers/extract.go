package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/text-extractor/internal/models"
	"github.com/feichai0017/text-extractor/internal/service/extraction"
	"github.com/feichai0017/text-extractor/pkg/logger"
)

type ExtractHandler struct {
	service extraction.Service
	logger  logger.Logger
}

// SubmitResponse describes an accepted extraction request.
type SubmitResponse struct {
	TaskID    string `json:"taskId"`
	Status    string `json:"status"`
	Filename  string `json:"filename"`
	FileSize  int64  `json:"fileSize"`
	FileType  string `json:"fileType"`
	Encoding  string `json:"encoding"`
	CreatedAt string `json:"createdAt"`
}

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewExtractHandler(service extraction.Service, log logger.Logger) *ExtractHandler {
	return &ExtractHandler{
		service: service,
		logger:  log,
	}
}

// parseSpec reads the extraction settings from the form: "encoding",
// "method", and any number of "option" fields of the form KEY=VALUE.
func parseSpec(c *gin.Context) (models.ExtractionSpec, error) {
	spec := models.ExtractionSpec{
		Encoding: c.PostForm("encoding"),
		Options:  make(map[string]string),
	}

	if method := c.PostForm("method"); method != "" {
		spec.Options["method"] = method
	}

	for _, raw := range c.PostFormArray("option") {
		key, val, ok := strings.Cut(strings.TrimSpace(raw), "=")
		if !ok || key == "" {
			return spec, fmt.Errorf("malformed option %q, expected KEY=VALUE", raw)
		}
		if _, dup := spec.Options[key]; dup {
			return spec, fmt.Errorf("duplicate specification of option %q", key)
		}
		spec.Options[key] = val
	}

	return spec, nil
}

// Submit accepts a single document for extraction.
func (h *ExtractHandler) Submit(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	spec, err := parseSpec(c)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid extraction options", err)
		return
	}

	task, err := h.service.SubmitFile(c.Request.Context(), file, header, spec)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to submit file", err)
		return
	}

	c.JSON(http.StatusOK, SubmitResponse{
		TaskID:    task.ID,
		Status:    string(task.Status),
		Filename:  header.Filename,
		FileSize:  header.Size,
		FileType:  filepath.Ext(header.Filename),
		Encoding:  task.Metadata["encoding"],
		CreatedAt: task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// SubmitBatch accepts several documents under one set of options.
func (h *ExtractHandler) SubmitBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		h.handleError(c, http.StatusBadRequest, "No files provided", nil)
		return
	}

	spec, err := parseSpec(c)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid extraction options", err)
		return
	}

	tasks, err := h.service.SubmitBatch(c.Request.Context(), files, spec)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to submit files", err)
		return
	}

	responses := make([]SubmitResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = SubmitResponse{
			TaskID:    task.ID,
			Status:    string(task.Status),
			Filename:  task.Metadata["filename"],
			Encoding:  task.Metadata["encoding"],
			CreatedAt: task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Extracting %d documents", len(tasks)),
		"tasks":   responses,
	})
}

// GetStatus returns the state of a task.
func (h *ExtractHandler) GetStatus(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Task ID is required", nil)
		return
	}

	task, err := h.service.GetStatus(c.Request.Context(), taskID)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to get status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"taskId":    task.ID,
		"status":    string(task.Status),
		"progress":  task.Progress,
		"error":     task.Error,
		"createdAt": task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		"updatedAt": task.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetResult streams the extracted text of a completed task. The body is
// served as an opaque byte stream: it is already in the encoding the
// caller asked for at submission.
func (h *ExtractHandler) GetResult(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Task ID is required", nil)
		return
	}

	reader, err := h.service.GetResult(c.Request.Context(), taskID)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to get result", err)
		return
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to read result", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=result_%s.txt", taskID))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// CancelTask cancels a queued task.
func (h *ExtractHandler) CancelTask(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Task ID is required", nil)
		return
	}

	if err := h.service.CancelTask(c.Request.Context(), taskID); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to cancel task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task cancelled successfully",
		"taskId":  taskID,
	})
}

func (h *ExtractHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(status, response)
}
