package voice

// SynthesizeRequest represents a text-to-speech request
type SynthesizeRequest struct {
	Text            string   `json:"text" validate:"required,min=1,max=5000"`
	VoiceID         string   `json:"voice_id,omitempty"`
	Stability       *float64 `json:"stability,omitempty" validate:"omitempty,min=0,max=1"`
	SimilarityBoost *float64 `json:"similarity_boost,omitempty" validate:"omitempty,min=0,max=1"`
	Style           *float64 `json:"style,omitempty" validate:"omitempty,min=0,max=1"`
	UseSpeakerBoost *bool    `json:"use_speaker_boost,omitempty"`
}
