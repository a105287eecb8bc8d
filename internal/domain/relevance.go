package domain

import "strings"

// RelevanceThreshold is the default admission gate: below it, generation
// falls back to general knowledge instead of forcing weak content.
const RelevanceThreshold = 0.3

// RelevanceDecision is the derived content-support verdict for a topic.
type RelevanceDecision struct {
	IsRelevant bool
	Score      float64
}

// ScoreRelevance computes the fraction of topic tokens that appear as literal
// substrings anywhere in the concatenated lowercased passage text. This is a
// cheap admission-control gate before expensive generation, not a ranking
// signal.
func ScoreRelevance(topic string, passages []string) float64 {
	if len(passages) == 0 {
		return 0
	}
	tokens := strings.Fields(strings.ToLower(topic))
	if len(tokens) == 0 {
		return 0
	}

	combined := strings.ToLower(strings.Join(passages, " "))

	matches := 0
	for _, tok := range tokens {
		if strings.Contains(combined, tok) {
			matches++
		}
	}
	return float64(matches) / float64(len(tokens))
}

// DecideRelevance gates a topic against retrieved passages at the given
// threshold. The invariant score >= threshold <=> IsRelevant holds except for
// empty passage sets, which are never relevant.
func DecideRelevance(topic string, passages []string, threshold float64) RelevanceDecision {
	score := ScoreRelevance(topic, passages)
	return RelevanceDecision{
		IsRelevant: len(passages) > 0 && score >= threshold,
		Score:      score,
	}
}
