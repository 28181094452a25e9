package repair

import (
	"regexp"
	"strings"
)

// Regex extraction for contact details callers say out loud instead of
// entering. These are deliberately conservative: a miss leaves the field
// empty, a false positive pollutes a record.
var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i:my name is|i'm|i am|this is|name's)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`),
		regexp.MustCompile(`(?i:it's|this is)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`),
	}

	// Phrases that match the name shape but never are one.
	nameFalsePositives = []string{
		"how can", "can i", "thank you", "yes i", "no i", "sure sure",
		"good morning", "good afternoon", "good evening",
	}

	emailPattern = regexp.MustCompile(`\b([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\b`)

	// Spoken form: "jordan at example dot com".
	spokenEmailPattern = regexp.MustCompile(`(?i)([a-zA-Z0-9._%+-]+)\s+(?:at|@)\s+([a-zA-Z0-9.-]+)\s+(?:dot|\.)\s*([a-zA-Z]{2,})`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{3}[-.]?\d{3}[-.]?\d{4})\b`),
		regexp.MustCompile(`\((\d{3})\)\s*(\d{3})[-.]?(\d{4})`),
	}

	nonDigits = regexp.MustCompile(`\D`)
)

// topicRule maps keywords to a topic label; rules are checked in priority
// order and the first keyword hit wins.
type topicRule struct {
	topic    string
	keywords []string
}

var topicRules = []topicRule{
	{"Admissions Appointment", []string{"appointment", "admissions counselor", "meet with", "schedule", "admissions rep", "talk to someone"}},
	{"Financial Aid", []string{"financial aid", "scholarship", "tuition", "afford", "financial assistance", "pay for", "expenses"}},
	{"Campus Tour", []string{"campus tour", "visit campus", "see the campus", "tour"}},
	{"Application Process", []string{"apply", "application", "requirements", "how to get in", "acceptance"}},
	{"Programs & Academics", []string{"major", "program", "degree", "course", "study", "academic"}},
}

// ExtractName pulls a plausible caller name out of free text.
func ExtractName(text string) string {
	for _, pattern := range namePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(match[1])
			if len(name) <= 3 {
				continue
			}
			if isFalsePositiveName(name) {
				continue
			}
			words := strings.Fields(name)
			if len(words) >= 2 && len(words) <= 4 {
				return name
			}
		}
	}
	return ""
}

func isFalsePositiveName(name string) bool {
	lower := strings.ToLower(name)
	for _, fp := range nameFalsePositives {
		if strings.Contains(lower, fp) {
			return true
		}
	}
	return false
}

// ExtractEmail finds a written or spoken email address.
func ExtractEmail(text string) string {
	if m := emailPattern.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1])
	}
	if m := spokenEmailPattern.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1] + "@" + m[2] + "." + m[3])
	}
	return ""
}

// ExtractPhone finds a ten-digit US phone number and normalizes it to
// ddd-ddd-dddd.
func ExtractPhone(text string) string {
	for _, pattern := range phonePatterns {
		m := pattern.FindString(text)
		if m == "" {
			continue
		}
		digits := nonDigits.ReplaceAllString(m, "")
		switch {
		case len(digits) == 10:
			return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
		case len(digits) == 11 && digits[0] == '1':
			return digits[1:4] + "-" + digits[4:7] + "-" + digits[7:]
		}
	}
	return ""
}

// ExtractBestTime finds a preferred contact window mentioned in the text.
func ExtractBestTime(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "afternoon"):
		return "afternoon"
	case strings.Contains(lower, "morning"):
		return "morning"
	case strings.Contains(lower, "evening"):
		return "evening"
	case strings.Contains(lower, "anytime"), strings.Contains(lower, "any time"):
		return "anytime"
	}
	return ""
}

// ClassifyTopic assigns a topic label from keyword rules, first hit wins.
func ClassifyTopic(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range topicRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.topic
			}
		}
	}
	return "General Inquiry"
}
