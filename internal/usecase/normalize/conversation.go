package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
)

// NormalizeConversation maps any conversation payload shape, vendor or
// previously stored, into the canonical record. It is total: it never fails,
// it only degrades fields to their defaults. Running it over an already
// canonical record is a no-op, which is what lets the store re-normalize
// defensively on every load and save.
//
// Cost and credit fields from vendor payloads are deliberately not carried.
func NormalizeConversation(raw RawRecord, defaultSource entities.Source, now time.Time) entities.Conversation {
	analysis := subMap(raw, "analysis")

	transcript := NormalizeTranscript(anyList(transcriptFields.firstValue(raw)))

	id := idFields.firstString(raw)
	if id == "" {
		id = fmt.Sprintf("conv_%d", now.UnixMilli())
	}

	agentID := agentIDFields.firstString(raw)
	if agentID == "" {
		agentID = "unknown"
	}

	startedAt := extractStartedAt(raw, now)

	summary := summaryFields.firstString(raw)

	// Non-empty sentiment labels are stored verbatim, even outside the usual
	// positive/neutral/negative set; only a missing label defaults to neutral.
	sentiment := sentimentFields.firstString(raw)
	if sentiment == "" {
		sentiment = string(entities.SentimentNeutral)
	}

	rawOutcome := rawOutcomeFields.firstString(raw)
	if rawOutcome == "" {
		rawOutcome = "completed"
	}

	collected := subMap(analysis, "data_collection_result")
	extracted, _ := extractedDataFields.firstValue(raw).(map[string]any)

	merged := make(map[string]any, len(extracted)+len(collected))
	for k, v := range extracted {
		merged[k] = v
	}
	for k, v := range collected {
		merged[k] = v
	}

	userName := personField(raw, collected, extracted, "user_name", "student_name")
	userEmail := personField(raw, collected, extracted, "user_email", "student_email")

	topic := strings.TrimSpace(stringOf(raw["topic"]))
	if topic == "" {
		topic = CoerceText(merged["call_topic"])
	}
	if topic == "" {
		topic = CoerceText(merged["topic"])
	}
	if topic == "" {
		topic = "General Inquiry"
	}

	source := entities.Source(stringOf(raw["source"]))
	if source == "" {
		source = defaultSource
	}

	createdAt := now
	if ts, ok := parseTime(raw["created_at"]); ok {
		createdAt = ts
	}

	var syncedAt *time.Time
	if ts, ok := parseTime(raw["synced_at"]); ok {
		syncedAt = &ts
	} else if source == entities.SourceSync {
		syncedAt = &now
	}

	conv := entities.Conversation{
		ID:                id,
		AgentID:           agentID,
		StartedAt:         startedAt,
		Duration:          extractDuration(raw),
		Transcript:        transcript,
		Summary:           summary,
		ExtractedData:     merged,
		Sentiment:         entities.Sentiment(sentiment),
		Outcome:           NormalizeOutcome(rawOutcome),
		EvaluationResult:  extractEvaluation(raw, analysis),
		UserName:          userName,
		UserEmail:         userEmail,
		Topic:             topic,
		TranscriptSummary: summary,
		Source:            source,
		SyncedAt:          syncedAt,
		CreatedAt:         createdAt,
	}
	conv.RecountTurns()
	conv.TranscriptPreview = buildPreview(summary, transcript)
	return conv
}

// ConversationID returns the record's identity without normalizing the rest
// of it. Empty when the record has no id under any known key.
func ConversationID(raw RawRecord) string {
	return idFields.firstString(raw)
}

// extractStartedAt resolves the call start time. Epoch seconds under
// metadata win, then the ISO-or-epoch field chain, then ingestion time.
func extractStartedAt(raw RawRecord, now time.Time) time.Time {
	for _, path := range startedAtEpochFields {
		if secs, ok := asFloat(lookup(raw, path)); ok && secs > 0 {
			return epochToTime(secs)
		}
	}
	for _, path := range startedAtFields {
		v := lookup(raw, path)
		if v == nil {
			continue
		}
		if ts, ok := parseTime(v); ok {
			return ts
		}
	}
	return now
}

// extractDuration takes the first present, non-zero duration candidate and
// coerces it to whole seconds.
func extractDuration(raw RawRecord) int {
	for _, path := range durationFields {
		v := lookup(raw, path)
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		if f, ok := asFloat(v); ok && f == 0 {
			continue
		}
		return parseDuration(v)
	}
	return 0
}

// extractEvaluation keeps an already normalized evaluation_result, otherwise
// derives one from the vendor's call-success flag and quality score.
func extractEvaluation(raw RawRecord, analysis map[string]any) entities.EvaluationResult {
	switch er := entities.EvaluationResult(stringOf(raw["evaluation_result"])); er {
	case entities.EvaluationSuccessful, entities.EvaluationNeedsReview, entities.EvaluationFailed:
		return er
	}

	successful := true
	switch v := analysis["call_successful"].(type) {
	case bool:
		successful = v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "failure", "failed", "false", "unsuccessful":
			successful = false
		}
	}

	quality := 1.0
	if f, ok := asFloat(analysis["quality_score"]); ok {
		quality = f
	}

	switch {
	case successful && quality >= 0.8:
		return entities.EvaluationSuccessful
	case successful:
		return entities.EvaluationNeedsReview
	default:
		return entities.EvaluationFailed
	}
}

// personField prefers an already normalized top-level value, then the
// analysis collection result, then extracted data, under both the generic and
// the legacy student-prefixed key.
func personField(raw RawRecord, collected, extracted map[string]any, key, legacyKey string) string {
	if s := strings.TrimSpace(stringOf(raw[key])); s != "" {
		return s
	}
	for _, m := range []map[string]any{collected, extracted} {
		if s := CoerceText(m[key]); s != "" {
			return s
		}
		if s := CoerceText(m[legacyKey]); s != "" {
			return s
		}
	}
	return ""
}

// buildPreview truncates the summary to 100 characters, falling back to the
// first substantial user turn when no summary exists.
func buildPreview(summary string, transcript []entities.TranscriptTurn) string {
	if summary != "" {
		return truncatePreview(summary)
	}
	for _, t := range transcript {
		if t.Speaker == entities.SpeakerUser && len(t.Text) > 20 {
			return truncatePreview(t.Text)
		}
	}
	return ""
}

func truncatePreview(s string) string {
	if len(s) > 100 {
		return s[:100] + "..."
	}
	return s
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}
