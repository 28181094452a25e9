package entities

import "time"

// Sentiment is the overall conversation sentiment reported by the vendor.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Outcome is the normalized call outcome. Raw vendor outcome strings are
// collapsed into this closed set at ingestion; a raw string never survives
// into a stored record.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomeEscalated Outcome = "escalated"
	OutcomeFailed    Outcome = "failed"
)

// EvaluationResult is derived from the vendor's call-success flag and quality
// score, never copied from the payload.
type EvaluationResult string

const (
	EvaluationSuccessful  EvaluationResult = "successful"
	EvaluationNeedsReview EvaluationResult = "needs_review"
	EvaluationFailed      EvaluationResult = "failed"
)

// Source tags where a record entered the system. Records tagged
// SourceManualTest stay in the store but are excluded from listing and
// analytics views.
type Source string

const (
	SourceWebhook    Source = "webhook"
	SourceSync       Source = "sync"
	SourceManualTest Source = "manual:test"
)

// Conversation is the canonical, schema-stable representation of one call.
// It is the unit of storage and the one stability contract offered outward.
type Conversation struct {
	ID               string           `json:"id"`
	AgentID          string           `json:"agent_id"`
	StartedAt        time.Time        `json:"started_at"`
	Duration         int              `json:"duration"` // seconds
	Transcript       []TranscriptTurn `json:"transcript"`
	Summary          string           `json:"summary"`
	ExtractedData    map[string]any   `json:"extracted_data"`
	Sentiment        Sentiment        `json:"sentiment"`
	Outcome          Outcome          `json:"outcome"`
	EvaluationResult EvaluationResult `json:"evaluation_result"`

	// Counters are always recomputed from Transcript; vendor-provided
	// counts are unreliable and never trusted.
	MessagesCount int `json:"messages_count"`
	TurnCount     int `json:"turn_count"`
	UserTurns     int `json:"user_turns"`
	AgentTurns    int `json:"agent_turns"`

	LastMessageAt time.Time `json:"last_message_at"`

	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	Topic     string `json:"topic"`

	TranscriptPreview string `json:"transcript_preview,omitempty"`
	TranscriptSummary string `json:"transcript_summary,omitempty"`

	Source    Source     `json:"source"`
	SyncedAt  *time.Time `json:"synced_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// RecountTurns refreshes the transcript-derived counters and the
// last-message timestamp so they stay consistent with Transcript.
func (c *Conversation) RecountTurns() {
	c.TurnCount = len(c.Transcript)
	c.UserTurns = 0
	c.AgentTurns = 0
	for _, t := range c.Transcript {
		switch t.Speaker {
		case SpeakerUser:
			c.UserTurns++
		case SpeakerAgent:
			c.AgentTurns++
		}
	}
	c.MessagesCount = c.TurnCount
	if len(c.Transcript) > 0 {
		last := c.Transcript[len(c.Transcript)-1].Timestamp
		c.LastMessageAt = c.StartedAt.Add(time.Duration(last * float64(time.Second)))
	} else {
		c.LastMessageAt = c.StartedAt
	}
}
