package rag

// DocumentRequest is one knowledge-base entry to ingest
type DocumentRequest struct {
	ID       string            `json:"id" validate:"required,min=1,max=255"`
	Content  string            `json:"content" validate:"required,min=1"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IngestRequest represents a batch knowledge-base ingest
type IngestRequest struct {
	Documents []DocumentRequest `json:"documents" validate:"required,min=1,dive"`
}

// QueryRequest represents a knowledge-base similarity query
type QueryRequest struct {
	Query         string   `json:"query" validate:"required,min=1"`
	Limit         int      `json:"limit,omitempty" validate:"omitempty,min=1,max=20"`
	MinSimilarity *float64 `json:"min_similarity,omitempty" validate:"omitempty,min=0,max=1"`
}
