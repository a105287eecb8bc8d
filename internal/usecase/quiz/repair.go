package quiz

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/quizdex/internal/domain"
	"github.com/kailas-cloud/quizdex/internal/metrics"
)

// repairResponse recovers a question list from raw model output. The stages
// run in order and each is a no-op when the input already satisfies it:
// strip reasoning markup, strip code fences, isolate the array, parse with
// bracket-completion repair, manual per-stem extraction, container
// normalization, per-question validation. Too few questions is a logged
// shortfall; zero surviving questions is ErrParse.
func repairResponse(raw string, expectedCount int, log *zap.Logger) ([]domain.Question, error) {
	cleaned := stripThink(strings.TrimSpace(raw))
	cleaned = stripFences(cleaned)
	cleaned = isolateArray(cleaned)

	candidates, stage := parseQuestions(cleaned)
	if candidates == nil {
		metrics.RepairOutcomesTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("no parsable questions in model output: %w", domain.ErrParse)
	}

	validated := make([]domain.Question, 0, len(candidates))
	for i := range candidates {
		q := candidates[i]
		switch q.Normalize() {
		case domain.QuestionDropped:
			log.Warn("Question dropped: insufficient options", zap.Int("index", i))
		case domain.QuestionCorrected:
			log.Warn("Question corrected: correct_index reset", zap.Int("index", i))
			validated = append(validated, q)
		case domain.QuestionOK:
			validated = append(validated, q)
		}
	}

	if len(validated) == 0 {
		metrics.RepairOutcomesTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("no valid questions after validation: %w", domain.ErrParse)
	}

	metrics.RepairOutcomesTotal.WithLabelValues(stage).Inc()
	if len(validated) < expectedCount {
		log.Warn("Fewer questions than requested",
			zap.Int("requested", expectedCount), zap.Int("generated", len(validated)))
	}
	return validated, nil
}

// stripThink removes <think>...</think> spans; an unterminated opening tag
// truncates everything from the tag onward.
func stripThink(s string) string {
	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "</think>")
		if end == -1 {
			s = strings.TrimSpace(s[:start])
			break
		}
		s = strings.TrimSpace(s[:start] + s[start+end+len("</think>"):])
	}
	return strings.TrimSpace(strings.TrimPrefix(s, "</think>"))
}

// stripFences extracts the content of the first fenced code block, if any.
func stripFences(s string) string {
	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+len("```json"):]
	} else if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+len("```"):]
	} else {
		return s
	}
	if end := strings.Index(s, "```"); end != -1 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// isolateArray slices to the outermost [..] span. Without brackets it wraps
// a detected question object so downstream parsing still has an array.
func isolateArray(s string) string {
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return "[" + s + "]"
	}
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start != -1 && end != -1 && end > start {
		return s[start : end+1]
	}

	if stem := strings.Index(s, `"stem"`); stem != -1 {
		if brace := strings.LastIndex(s[:stem], "{"); brace != -1 {
			return "[" + s[brace:] + "]"
		}
		return "[{" + s[stem:] + "}]"
	}
	if s != "" && !strings.HasPrefix(s, "[") {
		return "[" + s + "]"
	}
	return s
}

// parseQuestions attempts a structured parse, then bracket-completion
// repair, then manual per-stem fragment extraction. Returns the candidates
// and the stage that produced them, or nil when nothing parsed.
func parseQuestions(cleaned string) ([]domain.Question, string) {
	if qs, ok := decodeQuestions(cleaned); ok {
		return qs, "direct"
	}

	completed := completeBrackets(cleaned)
	if completed != cleaned {
		if qs, ok := decodeQuestions(completed); ok {
			return qs, "completed"
		}
	}

	if qs := extractFragments(cleaned); len(qs) > 0 {
		return qs, "fragment"
	}
	return nil, ""
}

// decodeQuestions parses either an array of questions or a single object.
func decodeQuestions(s string) ([]domain.Question, bool) {
	var list []domain.Question
	if err := json.Unmarshal([]byte(s), &list); err == nil {
		return list, true
	}
	var single domain.Question
	if err := json.Unmarshal([]byte(s), &single); err == nil && single.Stem != "" {
		return []domain.Question{single}, true
	}
	return nil, false
}

// completeBrackets appends the closing braces/brackets the text is missing.
func completeBrackets(s string) string {
	if diff := strings.Count(s, "{") - strings.Count(s, "}"); diff > 0 {
		s += strings.Repeat("}", diff)
	}
	if diff := strings.Count(s, "[") - strings.Count(s, "]"); diff > 0 {
		s += strings.Repeat("]", diff)
	}
	return s
}

// extractFragments splits the text before each "stem" occurrence and parses
// each fragment independently, discarding the ones that fail.
func extractFragments(s string) []domain.Question {
	var questions []domain.Question
	for _, part := range splitBeforeStem(s) {
		if !strings.Contains(part, `"stem"`) {
			continue
		}
		part = strings.TrimSpace(part)
		part = strings.TrimRight(part, ",]} \n\t")
		if !strings.HasPrefix(part, "{") {
			part = "{" + part
		}
		part = completeBrackets(part)

		var q domain.Question
		if err := json.Unmarshal([]byte(part), &q); err == nil && q.Stem != "" {
			questions = append(questions, q)
		}
	}
	return questions
}

// splitBeforeStem splits s at positions immediately preceding each `"stem"`
// occurrence, keeping the delimiter with the following part.
func splitBeforeStem(s string) []string {
	const marker = `"stem"`
	var parts []string
	for s != "" {
		idx := strings.Index(s[1:], marker)
		if idx == -1 {
			parts = append(parts, s)
			return parts
		}
		// Prefer cutting at the object brace right before the marker.
		cut := idx + 1
		if brace := strings.LastIndex(s[:cut], "{"); brace > 0 {
			cut = brace
		}
		parts = append(parts, s[:cut])
		s = s[cut:]
	}
	return parts
}
