package query

import (
	"testing"
	"time"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
)

func TestAnalyzeEmpty(t *testing.T) {
	got := Analyze(nil, "agent_42", time.Time{})
	if got.TotalConversations != 0 {
		t.Errorf("TotalConversations = %d", got.TotalConversations)
	}
	if got.SentimentBreakdown == nil || got.OutcomeBreakdown == nil {
		t.Error("breakdown maps should be initialized")
	}
	if len(got.HourlyDistribution) != 24 {
		t.Errorf("HourlyDistribution length = %d", len(got.HourlyDistribution))
	}
}

func TestAnalyzeAggregation(t *testing.T) {
	cutoff := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	conversations := []entities.Conversation{
		{
			ID: "c1", AgentID: "agent_42", StartedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			Duration: 120, Sentiment: entities.SentimentPositive, Outcome: entities.OutcomeResolved,
			Topic: "Billing", Source: entities.SourceSync,
		},
		{
			ID: "c2", AgentID: "agent_42", StartedAt: time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
			Duration: 240, Sentiment: entities.SentimentNegative, Outcome: entities.OutcomeEscalated,
			Topic: "Billing", Source: entities.SourceSync,
		},
		{
			ID: "c3", AgentID: "agent_42", StartedAt: time.Date(2025, 6, 3, 14, 0, 0, 0, time.UTC),
			Duration: 60, Outcome: entities.OutcomeResolved, Topic: "Admissions",
			Source: entities.SourceSync,
		},
		// Before the cutoff.
		{ID: "old", AgentID: "agent_42", StartedAt: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), Duration: 999, Source: entities.SourceSync},
		// Other agent.
		{ID: "other", AgentID: "agent_x", StartedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), Duration: 999, Source: entities.SourceSync},
		// Test data.
		{ID: "test", AgentID: "agent_42", StartedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), Duration: 999, Source: entities.SourceManualTest},
	}

	got := Analyze(conversations, "agent_42", cutoff)

	if got.TotalConversations != 3 {
		t.Fatalf("TotalConversations = %d, want 3", got.TotalConversations)
	}
	if got.TotalDurationMinutes != 7 {
		t.Errorf("TotalDurationMinutes = %d, want 7", got.TotalDurationMinutes)
	}
	if got.AverageDurationSeconds != 140 {
		t.Errorf("AverageDurationSeconds = %d, want 140", got.AverageDurationSeconds)
	}
	if got.SentimentBreakdown["positive"] != 1 || got.SentimentBreakdown["negative"] != 1 || got.SentimentBreakdown["neutral"] != 1 {
		t.Errorf("SentimentBreakdown = %v", got.SentimentBreakdown)
	}
	if got.OutcomeBreakdown["resolved"] != 2 || got.OutcomeBreakdown["escalated"] != 1 {
		t.Errorf("OutcomeBreakdown = %v", got.OutcomeBreakdown)
	}
	if len(got.TopTopics) == 0 || got.TopTopics[0].Topic != "Billing" || got.TopTopics[0].Count != 2 {
		t.Errorf("TopTopics = %v", got.TopTopics)
	}
	if got.HourlyDistribution[9] != 2 || got.HourlyDistribution[14] != 1 {
		t.Errorf("HourlyDistribution = %v", got.HourlyDistribution)
	}
}

// Outcomes from records written before normalization still land in the
// closed set via the shared mapping.
func TestAnalyzeNormalizesLegacyOutcomes(t *testing.T) {
	conversations := []entities.Conversation{
		{ID: "c1", AgentID: "a", StartedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), Outcome: entities.Outcome("completed"), Source: entities.SourceSync},
		{ID: "c2", AgentID: "a", StartedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), Outcome: entities.Outcome("handoff"), Source: entities.SourceSync},
	}
	got := Analyze(conversations, "a", time.Time{})
	if got.OutcomeBreakdown["resolved"] != 1 || got.OutcomeBreakdown["escalated"] != 1 {
		t.Errorf("OutcomeBreakdown = %v", got.OutcomeBreakdown)
	}
}
