package query

import (
	"sort"
	"time"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
	"github.com/voicedesk-team/voicedesk/internal/usecase/normalize"
)

// TopicCount is one entry of the top-topics ranking.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Analytics is the aggregated dashboard summary.
type Analytics struct {
	TotalConversations     int            `json:"total_conversations"`
	TotalDurationMinutes   int            `json:"total_duration_minutes"`
	AverageDurationSeconds int            `json:"average_duration_seconds"`
	SentimentBreakdown     map[string]int `json:"sentiment_breakdown"`
	OutcomeBreakdown       map[string]int `json:"outcome_breakdown"`
	TopTopics              []TopicCount   `json:"top_topics"`
	HourlyDistribution     []int          `json:"hourly_distribution"`
}

// Analyze aggregates conversations for one agent since the cutoff. Manual
// test records are excluded. Outcomes are re-normalized through the shared
// mapping so pre-normalization records still land in the closed set.
func Analyze(conversations []entities.Conversation, agentID string, cutoff time.Time) Analytics {
	recent := make([]entities.Conversation, 0, len(conversations))
	for _, c := range conversations {
		if agentID != "" && c.AgentID != agentID {
			continue
		}
		if !c.StartedAt.After(cutoff) {
			continue
		}
		if c.Source == entities.SourceManualTest {
			continue
		}
		recent = append(recent, c)
	}

	out := Analytics{
		SentimentBreakdown: make(map[string]int),
		OutcomeBreakdown:   make(map[string]int),
		TopTopics:          []TopicCount{},
		HourlyDistribution: make([]int, 24),
	}
	if len(recent) == 0 {
		return out
	}

	totalDuration := 0
	topicCounts := make(map[string]int)
	for _, c := range recent {
		totalDuration += c.Duration

		sentiment := string(c.Sentiment)
		if sentiment == "" {
			sentiment = string(entities.SentimentNeutral)
		}
		out.SentimentBreakdown[sentiment]++

		outcome := normalize.NormalizeOutcome(string(c.Outcome))
		out.OutcomeBreakdown[string(outcome)]++

		topic := c.Topic
		if topic == "" {
			topic = "General Inquiry"
		}
		topicCounts[topic]++

		out.HourlyDistribution[c.StartedAt.UTC().Hour()]++
	}

	out.TotalConversations = len(recent)
	out.TotalDurationMinutes = totalDuration / 60
	out.AverageDurationSeconds = totalDuration / len(recent)

	topics := make([]TopicCount, 0, len(topicCounts))
	for topic, count := range topicCounts {
		topics = append(topics, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Topic < topics[j].Topic
	})
	if len(topics) > 5 {
		topics = topics[:5]
	}
	out.TopTopics = topics

	return out
}
