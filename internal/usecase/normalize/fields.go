package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// RawRecord is a vendor payload or stored record before normalization.
type RawRecord = map[string]any

// fieldChain is an ordered list of lookup paths tried left to right until one
// yields a usable value. Path segments are separated by dots, so
// "metadata.call_duration_secs" descends into the metadata object. Keeping
// these as data makes the which-vendor-shape-wins policy readable in one
// place instead of being buried in control flow.
type fieldChain []string

var (
	idFields      = fieldChain{"id", "conversation_id"}
	agentIDFields = fieldChain{"agent_id", "agentId"}

	// Epoch seconds win over ISO strings when both are present.
	startedAtEpochFields = fieldChain{"metadata.start_time_unix_secs"}
	startedAtFields      = fieldChain{"started_at", "start_time", "timestamp", "created_at", "metadata.start_time"}

	durationFields = fieldChain{
		"call_duration_seconds", // webhook payloads
		"metadata.call_duration_secs",
		"metadata.duration_seconds",
		"duration_seconds", // listing payloads
		"duration",
	}

	transcriptFields = fieldChain{"transcript", "transcript_json"}

	summaryFields   = fieldChain{"analysis.transcript_summary", "analysis.summary", "summary", "last_summary"}
	sentimentFields = fieldChain{"sentiment", "analysis.aggregate_sentiment"}

	rawOutcomeFields = fieldChain{"outcome", "call_outcome", "status", "conversation_outcome"}

	extractedDataFields = fieldChain{"extracted_data", "extracted_data_json"}
)

// lookup resolves a dot path against a raw record. Missing segments and
// non-object intermediates resolve to nil.
func lookup(raw RawRecord, path string) any {
	cur := any(raw)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[seg]
	}
	return cur
}

// firstString returns the first non-empty string value along the chain.
func (c fieldChain) firstString(raw RawRecord) string {
	for _, path := range c {
		if s, ok := lookup(raw, path).(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstValue returns the first non-nil value along the chain.
func (c fieldChain) firstValue(raw RawRecord) any {
	for _, path := range c {
		if v := lookup(raw, path); v != nil {
			return v
		}
	}
	return nil
}

// asFloat coerces numeric payload values, which arrive as float64 from
// encoding/json but may also be json.Number, int or a numeric string.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// parseTime interprets the timestamp shapes vendors actually send: RFC 3339
// with or without Z, a bare datetime without zone, or unix epoch seconds as a
// number or numeric string.
func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), true
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return epochToTime(f), true
		}
		return time.Time{}, false
	default:
		if f, ok := asFloat(v); ok {
			return epochToTime(f), true
		}
	}
	return time.Time{}, false
}

func epochToTime(secs float64) time.Time {
	return time.Unix(int64(secs), int64((secs-float64(int64(secs)))*float64(time.Second))).UTC()
}

// parseDuration coerces duration payload values into whole seconds. Strings
// may be plain integers, "MM:SS" or "H:MM:SS"; anything unparseable is 0.
func parseDuration(v any) int {
	switch d := v.(type) {
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return 0
		}
		if strings.Contains(s, ":") {
			parts := strings.Split(s, ":")
			nums := make([]int, len(parts))
			for i, p := range parts {
				n, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil {
					return 0
				}
				nums[i] = n
			}
			switch len(nums) {
			case 2:
				return nums[0]*60 + nums[1]
			case 3:
				return nums[0]*3600 + nums[1]*60 + nums[2]
			}
			return 0
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0
		}
		return n
	default:
		if f, ok := asFloat(v); ok {
			return int(f)
		}
	}
	return 0
}

// subMap returns raw[key] as an object, or nil when absent or another shape.
func subMap(raw RawRecord, key string) map[string]any {
	m, _ := raw[key].(map[string]any)
	return m
}

// anyList returns the value as a []any, tolerating nil.
func anyList(v any) []any {
	l, _ := v.([]any)
	return l
}
