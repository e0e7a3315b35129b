package handlers

import (
	"github.com/feichai0017/text-extractor/internal/service/extraction"
	"github.com/feichai0017/text-extractor/pkg/logger"
)

type Handlers struct {
	Extract *ExtractHandler
}

func NewHandlers(service extraction.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Extract: NewExtractHandler(service, log),
	}
}
