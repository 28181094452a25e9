package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	ragdto "github.com/voicedesk-team/voicedesk/internal/adapter/dto/rag"
	"github.com/voicedesk-team/voicedesk/internal/usecase/rag"
)

// RAG serves the knowledge-base endpoints the voice agent queries mid-call.
type RAG struct {
	service       *rag.Service
	minSimilarity float64
	logger        *zap.Logger
}

// NewRAG creates a new knowledge-base handler
func NewRAG(service *rag.Service, minSimilarity float64, logger *zap.Logger) *RAG {
	return &RAG{service: service, minSimilarity: minSimilarity, logger: logger}
}

// Ingest adds or replaces documents in the knowledge base.
func (h *RAG) Ingest(c echo.Context) error {
	var req ragdto.IngestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	docs := make([]rag.Document, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = rag.Document{ID: d.ID, Content: d.Content, Metadata: d.Metadata}
	}

	if err := h.service.Ingest(c.Request().Context(), docs); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]int{
		"ingested": len(docs),
		"total":    h.service.Count(),
	})
}

// Query returns the documents most similar to the question.
func (h *RAG) Query(c echo.Context) error {
	var req ragdto.QueryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	minSimilarity := h.minSimilarity
	if req.MinSimilarity != nil {
		minSimilarity = *req.MinSimilarity
	}

	results, err := h.service.Query(c.Request().Context(), req.Query, req.Limit, float32(minSimilarity))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

// Stats reports knowledge-base size.
func (h *RAG) Stats(c echo.Context) error {
	return HandleSuccess(h.logger, c, map[string]int{"documents": h.service.Count()})
}

// Health reports knowledge-base readiness.
func (h *RAG) Health(c echo.Context) error {
	return HandleSuccess(h.logger, c, map[string]any{
		"status":    "ok",
		"documents": h.service.Count(),
	})
}
