package query

import (
	"sort"
	"strings"
	"time"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
)

// ListOptions are the dashboard listing parameters. Zero values mean
// "no filter"; page and limit are normalized by Apply.
type ListOptions struct {
	AgentID    string
	DateAfter  *time.Time
	DateBefore *time.Time
	Evaluation string
	Outcome    string
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// ListResult is one page of filtered conversations plus the counts the
// dashboard shows: total is after the agent filter, filtered is after all
// filters, both before pagination.
type ListResult struct {
	Items         []entities.Conversation
	TotalCount    int
	FilteredCount int
	Page          int
	Limit         int
}

// Apply filters, sorts and paginates conversations. It is a pure function
// over its inputs; the caller decides how fresh the snapshot is. Records
// tagged as manual test data are always excluded.
func Apply(conversations []entities.Conversation, opts ListOptions) ListResult {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 50
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	working := make([]entities.Conversation, 0, len(conversations))
	for _, c := range conversations {
		if c.Source == entities.SourceManualTest {
			continue
		}
		if opts.AgentID != "" && c.AgentID != opts.AgentID {
			continue
		}
		working = append(working, c)
	}
	totalCount := len(working)

	filtered := working[:0:len(working)]
	for _, c := range working {
		if opts.DateAfter != nil && c.StartedAt.Before(*opts.DateAfter) {
			continue
		}
		if opts.DateBefore != nil && c.StartedAt.After(*opts.DateBefore) {
			continue
		}
		if opts.Evaluation != "" && string(c.EvaluationResult) != opts.Evaluation {
			continue
		}
		if opts.Outcome != "" && string(c.Outcome) != opts.Outcome {
			continue
		}
		if opts.Search != "" && !matchesSearch(c, opts.Search) {
			continue
		}
		filtered = append(filtered, c)
	}
	filteredCount := len(filtered)

	sortConversations(filtered, opts.SortBy, opts.SortOrder)

	offset := (opts.Page - 1) * opts.Limit
	if offset > len(filtered) {
		offset = len(filtered)
	}
	end := offset + opts.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return ListResult{
		Items:         filtered[offset:end],
		TotalCount:    totalCount,
		FilteredCount: filteredCount,
		Page:          opts.Page,
		Limit:         opts.Limit,
	}
}

// matchesSearch checks summary, then user info, then the transcript, and
// short-circuits on the first hit.
func matchesSearch(c entities.Conversation, search string) bool {
	needle := strings.ToLower(search)

	if strings.Contains(strings.ToLower(c.Summary), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(c.UserName), needle) ||
		strings.Contains(strings.ToLower(c.UserEmail), needle) {
		return true
	}
	for _, turn := range c.Transcript {
		if strings.Contains(strings.ToLower(turn.Text), needle) {
			return true
		}
	}
	return false
}

// sortConversations orders the slice by the requested field. Unknown sort
// fields fall back to started_at.
func sortConversations(conversations []entities.Conversation, sortBy, sortOrder string) {
	desc := strings.ToLower(sortOrder) != "asc"

	var less func(a, b entities.Conversation) bool
	switch sortBy {
	case "last_message_at":
		less = func(a, b entities.Conversation) bool {
			return a.LastMessageAt.Before(b.LastMessageAt)
		}
	case "duration":
		less = func(a, b entities.Conversation) bool {
			return a.Duration < b.Duration
		}
	case "messages_count":
		less = func(a, b entities.Conversation) bool {
			return a.MessagesCount < b.MessagesCount
		}
	default:
		less = func(a, b entities.Conversation) bool {
			return a.StartedAt.Before(b.StartedAt)
		}
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		if desc {
			return less(conversations[j], conversations[i])
		}
		return less(conversations[i], conversations[j])
	})
}
