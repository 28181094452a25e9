package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/voicedesk-team/voicedesk/pkg/config"
)

const defaultBaseURL = "https://api.elevenlabs.io/v1"

// Client is a minimal ElevenLabs client covering the conversational AI
// endpoints plus text-to-speech.
type Client struct {
	apiKey  string
	voiceID string
	model   string
	baseURL string
	client  *http.Client
}

// ConversationStub is one metadata-only entry from the conversations
// listing. Transcripts are only available through GetConversationDetail.
type ConversationStub struct {
	ConversationID    string  `json:"conversation_id"`
	AgentID           string  `json:"agent_id"`
	StartTimeUnixSecs float64 `json:"start_time_unix_secs"`
}

type listResponse struct {
	Conversations []ConversationStub `json:"conversations"`
	HasMore       bool               `json:"has_more"`
	NextCursor    string             `json:"next_cursor"`
}

// VoiceSettings tune a synthesis request.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings returns the settings used when a request does not
// override them.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.75,
		Style:           0.0,
		UseSpeakerBoost: true,
	}
}

// NewClient creates an ElevenLabs client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewClient(cfg *config.ElevenLabsConfig) *Client {
	var apiKey, voiceID, model string
	if cfg != nil {
		apiKey = cfg.APIKey
		voiceID = cfg.VoiceID
		model = cfg.Model
	}
	if apiKey == "" {
		apiKey = os.Getenv("ELEVENLABS_API_KEY")
	}
	if voiceID == "" {
		voiceID = os.Getenv("ELEVENLABS_VOICE_ID")
	}
	if model == "" {
		model = "eleven_turbo_v2"
	}
	return &Client{
		apiKey:  apiKey,
		voiceID: voiceID,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ListConversations pulls every listing page for an agent. Each page is
// retried with exponential backoff before the whole listing fails.
func (c *Client) ListConversations(ctx context.Context, agentID string) ([]ConversationStub, error) {
	var conversations []ConversationStub
	cursor := ""

	for {
		params := url.Values{}
		params.Set("page_size", strconv.Itoa(100))
		if agentID != "" {
			params.Set("agent_id", agentID)
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var page listResponse
		fetch := func() error {
			return c.getJSON(ctx, "/convai/conversations?"+params.Encode(), &page)
		}
		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = 2 * time.Minute
		if err := backoff.Retry(fetch, backoff.WithContext(bo, ctx)); err != nil {
			return nil, fmt.Errorf("list conversations: %w", err)
		}

		conversations = append(conversations, page.Conversations...)
		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	return conversations, nil
}

// GetConversationDetail fetches one full conversation, transcript included.
// The payload is returned raw so normalization decides what to keep.
func (c *Client) GetConversationDetail(ctx context.Context, conversationID string) (map[string]any, error) {
	var detail map[string]any
	if err := c.getJSON(ctx, "/convai/conversations/"+url.PathEscape(conversationID), &detail); err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", conversationID, err)
	}
	return detail, nil
}

// Synthesize converts text to speech and returns the MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, text string, voiceID string, settings VoiceSettings) ([]byte, error) {
	if voiceID == "" {
		voiceID = c.voiceID
	}
	payload := map[string]any{
		"text":           text,
		"model_id":       c.model,
		"voice_settings": settings,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/text-to-speech/"+url.PathEscape(voiceID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("elevenlabs returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Voices returns the available voices, raw.
func (c *Client) Voices(ctx context.Context) (map[string]any, error) {
	var voices map[string]any
	if err := c.getJSON(ctx, "/voices", &voices); err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	return voices, nil
}

// UserInfo returns subscription and quota information, raw.
func (c *Client) UserInfo(ctx context.Context) (map[string]any, error) {
	var info map[string]any
	if err := c.getJSON(ctx, "/user", &info); err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}
	return info, nil
}

// Healthy reports whether the API answers with the configured key.
func (c *Client) Healthy(ctx context.Context) bool {
	var page listResponse
	err := c.getJSON(ctx, "/convai/conversations?page_size=1", &page)
	return err == nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("elevenlabs returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
