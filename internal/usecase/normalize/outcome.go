package normalize

import (
	"strings"

	"github.com/voicedesk-team/voicedesk/internal/domain/entities"
)

// Raw outcome vocabularies collapsed into the closed outcome set. Every raw
// string maps somewhere; the stored record never carries a vendor outcome.
var (
	resolvedOutcomes  = map[string]struct{}{"resolved": {}, "completed": {}, "successful": {}, "success": {}, "escalated_handled": {}, "done": {}, "finished": {}}
	escalatedOutcomes = map[string]struct{}{"escalated": {}, "handoff": {}, "transferred": {}}
	failedOutcomes    = map[string]struct{}{"failed": {}, "error": {}, "abandoned": {}}
)

// NormalizeOutcome collapses a raw vendor outcome string into the closed
// outcome set. This is the single mapping used by both ingestion and
// analytics. Unknown outcomes map to resolved, the historical default that
// dashboards already depend on.
func NormalizeOutcome(raw string) entities.Outcome {
	r := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := resolvedOutcomes[r]; ok {
		return entities.OutcomeResolved
	}
	if _, ok := escalatedOutcomes[r]; ok {
		return entities.OutcomeEscalated
	}
	if _, ok := failedOutcomes[r]; ok {
		return entities.OutcomeFailed
	}
	return entities.OutcomeResolved
}
