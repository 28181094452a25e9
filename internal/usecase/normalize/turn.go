package normalize

import (
	"strings"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
)

// Speaker labels seen across vendor payload formats. Unknown labels fall
// through to the heuristics in DetermineSpeaker.
var (
	speakerAgentAliases = map[string]struct{}{
		"agent": {}, "assistant": {}, "system": {}, "ai": {}, "addisupport": {}, "support": {},
	}
	speakerUserAliases = map[string]struct{}{
		"user": {}, "student": {}, "caller": {}, "prospect": {}, "customer": {}, "lead": {},
	}

	speakerFields = fieldChain{"speaker", "role", "source", "participant_role"}

	// Full text sources (original_message) come before truncated ones.
	textFields = fieldChain{"original_message", "message", "text", "content", "display_text"}

	// Turn-level metadata worth keeping; cost and credit fields are not synced.
	turnMetadataKeys = []string{
		"agent_metadata",
		"conversation_turn_metrics",
		"llm_usage",
		"feedback",
		"rag_retrieval_info",
		"source_medium",
		"sentiment",
	}
)

// DetermineSpeaker maps a raw turn to one of the two speaker sides. Entries
// without a recognizable label are attributed to the agent when they carry
// agent-only fields, otherwise to the user.
func DetermineSpeaker(entry map[string]any) entities.SpeakerType {
	label := strings.ToLower(strings.TrimSpace(speakerFields.firstString(entry)))
	if _, ok := speakerAgentAliases[label]; ok {
		return entities.SpeakerAgent
	}
	if _, ok := speakerUserAliases[label]; ok {
		return entities.SpeakerUser
	}
	if entry["agent_metadata"] != nil || entry["llm_usage"] != nil {
		return entities.SpeakerAgent
	}
	return entities.SpeakerUser
}

// CoerceText flattens the text payload shapes vendors send: a plain string,
// a list of string segments, or an object nesting the text under a well-known
// key. Returns "" when nothing usable is found.
func CoerceText(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, seg := range v {
			if s, ok := seg.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					parts = append(parts, s)
				}
			}
		}
		return strings.TrimSpace(strings.Join(parts, " "))
	case map[string]any:
		for _, key := range []string{"text", "value", "content", "message"} {
			if nested := CoerceText(v[key]); nested != "" {
				return nested
			}
		}
	}
	return ""
}

// extractTurnText walks the text field chain, then falls back to llm_response
// shapes some payloads use.
func extractTurnText(entry map[string]any) string {
	for _, path := range textFields {
		if text := CoerceText(lookup(entry, path)); text != "" {
			return text
		}
	}
	if llm := entry["llm_response"]; llm != nil {
		switch v := llm.(type) {
		case string, []any:
			if text := CoerceText(v); text != "" {
				return text
			}
		case map[string]any:
			if text := CoerceText(v["text"]); text != "" {
				return text
			}
		}
	}
	return ""
}

// NormalizeTurn converts one raw transcript entry into its canonical form.
// Nil or empty entries normalize to nil and are dropped by the caller.
func NormalizeTurn(entry map[string]any) *entities.TranscriptTurn {
	if len(entry) == 0 {
		return nil
	}

	timestamp := 0.0
	ts := entry["timestamp"]
	if ts == nil {
		ts = entry["time_in_call_secs"]
	}
	if f, ok := asFloat(ts); ok {
		timestamp = f
	}

	// Canonical turns nest the kept keys under "metadata"; raw vendor turns
	// carry them at the top level. Top-level values win on conflict.
	metadata := make(map[string]any)
	if nested, ok := entry["metadata"].(map[string]any); ok {
		for _, key := range turnMetadataKeys {
			if v := nested[key]; v != nil {
				metadata[key] = v
			}
		}
	}
	for _, key := range turnMetadataKeys {
		if v := entry[key]; v != nil {
			metadata[key] = v
		}
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	var interrupted *bool
	if b, ok := entry["interrupted"].(bool); ok {
		interrupted = &b
	}

	return &entities.TranscriptTurn{
		Speaker:         DetermineSpeaker(entry),
		Text:            extractTurnText(entry),
		Timestamp:       timestamp,
		ToolCalls:       orEmptyList(entry["tool_calls"]),
		ToolResults:     orEmptyList(entry["tool_results"]),
		Interrupted:     interrupted,
		OriginalMessage: CoerceText(entry["original_message"]),
		Metadata:        metadata,
	}
}

// NormalizeTranscript normalizes a raw transcript list preserving the
// original turn order. Non-object entries are skipped.
func NormalizeTranscript(entries []any) []entities.TranscriptTurn {
	if len(entries) == 0 {
		return []entities.TranscriptTurn{}
	}
	out := make([]entities.TranscriptTurn, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if turn := NormalizeTurn(entry); turn != nil {
			out = append(out, *turn)
		}
	}
	return out
}

func orEmptyList(v any) []any {
	if l := anyList(v); l != nil {
		return l
	}
	return []any{}
}
