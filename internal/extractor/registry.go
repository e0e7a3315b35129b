package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/feichai0017/text-extractor/pkg/logger"
)

// Registry maps file extensions to the extractor that handles them. It is
// built once at pipeline start and read-only afterwards.
type Registry struct {
	byExt  map[string]Extractor
	logger logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		byExt:  make(map[string]Extractor),
		logger: log,
	}
}

// Register binds e to each of the given extensions (".pdf" form,
// case-insensitive). Later registrations for the same extension win.
func (r *Registry) Register(e Extractor, exts ...string) {
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Extensions returns the number of registered extensions.
func (r *Registry) Extensions() int {
	return len(r.byExt)
}

// ForFile selects the extractor for path by its extension.
func (r *Registry) ForFile(path string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))

	e, ok := r.byExt[ext]
	if !ok {
		r.logger.Error("No extractor registered",
			logger.String("file", path),
			logger.String("extension", ext),
		)
		return nil, &Error{
			Format: strings.TrimPrefix(ext, "."),
			Path:   path,
			Msg:    fmt.Sprintf("unsupported file type %q", ext),
		}
	}

	return e, nil
}
