package rag

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	apperrors "github.com/voicedesk-team/voicedesk/errors"
)

const collectionName = "knowledge_base"

// Document is one knowledge-base entry.
type Document struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchResult is a document with its similarity to the query.
type SearchResult struct {
	Document
	Similarity float32 `json:"similarity"`
}

// Service answers knowledge-base queries for the voice agent. Documents are
// embedded through a local Ollama model and stored in an embedded persistent
// vector database, so lookups stay on-box.
type Service struct {
	db         *chromem.DB
	collection *chromem.Collection
	logger     *zap.Logger
}

// NewService opens (or creates) the persistent knowledge base at path,
// embedding with the given Ollama model.
func NewService(path, ollamaURL, embedModel string, logger *zap.Logger) (*Service, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base: %w", err)
	}

	embed := chromem.NewEmbeddingFuncOllama(embedModel, ollamaURL+"/api")
	collection, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Service{
		db:         db,
		collection: collection,
		logger:     logger,
	}, nil
}

// Ingest adds or replaces documents in the knowledge base.
func (s *Service) Ingest(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			return apperrors.ErrInvalidArgument("document id is required")
		}
		chromemDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		}
	}

	if err := s.collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return apperrors.ErrKnowledgeBaseFailed("ingest", err)
	}
	if s.logger != nil {
		s.logger.Info("✅ Knowledge base updated", zap.Int("documents", len(docs)))
	}
	return nil
}

// Query returns the documents most similar to the question, dropping results
// under minSimilarity.
func (s *Service) Query(ctx context.Context, question string, limit int, minSimilarity float32) ([]SearchResult, error) {
	if question == "" {
		return nil, apperrors.ErrInvalidArgument("query is required")
	}
	if limit <= 0 {
		limit = 5
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return []SearchResult{}, nil
	}
	if limit > count {
		limit = count
	}

	results, err := s.collection.Query(ctx, question, limit, nil, nil)
	if err != nil {
		return nil, apperrors.ErrKnowledgeBaseFailed("query", err)
	}

	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if r.Similarity < minSimilarity {
			continue
		}
		out = append(out, SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: r.Metadata,
			},
			Similarity: r.Similarity,
		})
	}
	return out, nil
}

// Count returns how many documents the knowledge base holds.
func (s *Service) Count() int {
	return s.collection.Count()
}
