package ollama

// MessageRequest is one chat turn sent to the LLM
type MessageRequest struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest represents a chat completion request
type ChatRequest struct {
	Messages    []MessageRequest `json:"messages" validate:"required,min=1,dive"`
	Model       string           `json:"model,omitempty"`
	Temperature float64          `json:"temperature,omitempty" validate:"omitempty,min=0,max=2"`
	MaxTokens   int              `json:"max_tokens,omitempty" validate:"omitempty,min=1,max=8192"`
}
