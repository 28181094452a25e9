package entities

// SpeakerType identifies which side of the call produced a transcript turn.
type SpeakerType string

const (
	SpeakerAgent SpeakerType = "agent"
	SpeakerUser  SpeakerType = "user"
)

// TranscriptTurn is a single normalized turn of a conversation transcript.
// Turns keep their original vendor order; they are never reordered.
type TranscriptTurn struct {
	Speaker         SpeakerType    `json:"speaker"`
	Text            string         `json:"text"`
	Timestamp       float64        `json:"timestamp"` // seconds from call start
	ToolCalls       []any          `json:"tool_calls"`
	ToolResults     []any          `json:"tool_results"`
	Interrupted     *bool          `json:"interrupted,omitempty"`
	OriginalMessage string         `json:"original_message,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}
