package repair

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
	"github.com/voicedesk-team/voicedesk/internal/domain/repositories"
)

// Report summarizes one repair run.
type Report struct {
	Scanned       int `json:"scanned"`
	Updated       int `json:"updated"`
	FilledNames   int `json:"filled_names"`
	FilledEmails  int `json:"filled_emails"`
	FilledPhones  int `json:"filled_phones"`
	FilledTimes   int `json:"filled_times"`
	UpdatedTopics int `json:"updated_topics"`
}

// Run backfills fields that earlier ingestion versions missed: caller name,
// email, phone and preferred contact time pulled out of the transcript, and a
// keyword topic where none was classified. A field that already has a value
// is never overwritten, so running the pass twice is a no-op.
func Run(ctx context.Context, repo repositories.ConversationRepository, logger *zap.Logger) (*Report, error) {
	conversations, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Scanned: len(conversations)}
	changed := false

	for i := range conversations {
		if repairConversation(&conversations[i], report) {
			changed = true
			report.Updated++
		}
	}

	if changed {
		if err := repo.Save(ctx, conversations); err != nil {
			return nil, err
		}
	}

	if logger != nil {
		logger.Info("✅ Repair pass complete",
			zap.Int("scanned", report.Scanned),
			zap.Int("updated", report.Updated),
		)
	}
	return report, nil
}

func repairConversation(conv *entities.Conversation, report *Report) bool {
	text := fullText(conv)
	if text == "" {
		return false
	}

	changed := false

	if conv.UserName == "" {
		if name := ExtractName(text); name != "" {
			conv.UserName = name
			report.FilledNames++
			changed = true
		}
	}
	if conv.UserEmail == "" {
		if email := ExtractEmail(text); email != "" {
			conv.UserEmail = email
			report.FilledEmails++
			changed = true
		}
	}

	if stringAt(conv.ExtractedData, "user_phone") == "" {
		if phone := ExtractPhone(text); phone != "" {
			setExtracted(conv, "user_phone", phone)
			report.FilledPhones++
			changed = true
		}
	}
	if stringAt(conv.ExtractedData, "best_time_to_call") == "" {
		if bestTime := ExtractBestTime(text); bestTime != "" {
			setExtracted(conv, "best_time_to_call", bestTime)
			report.FilledTimes++
			changed = true
		}
	}

	if conv.Topic == "" || conv.Topic == "General Inquiry" {
		if topic := ClassifyTopic(text); topic != "General Inquiry" {
			conv.Topic = topic
			report.UpdatedTopics++
			changed = true
		}
	}

	return changed
}

// fullText joins everything callers may have said a detail in: the transcript
// turns plus whichever summary the record carries.
func fullText(conv *entities.Conversation) string {
	var b strings.Builder
	for _, turn := range conv.Transcript {
		if turn.Text == "" {
			continue
		}
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}
	if conv.Summary != "" {
		b.WriteString(conv.Summary)
	} else if conv.TranscriptSummary != "" {
		b.WriteString(conv.TranscriptSummary)
	}
	return b.String()
}

func stringAt(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func setExtracted(conv *entities.Conversation, key, value string) {
	if conv.ExtractedData == nil {
		conv.ExtractedData = map[string]any{}
	}
	conv.ExtractedData[key] = value
}
