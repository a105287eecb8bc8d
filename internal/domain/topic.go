package domain

import (
	"sort"
	"strings"
)

// NormalizeTopic canonicalizes a user-supplied topic for search:
// lowercased, leading interrogatives removed, trailing question mark removed.
func NormalizeTopic(topic string) string {
	t := strings.ToLower(strings.TrimSpace(topic))
	t = strings.TrimPrefix(t, "what is ")
	t = strings.TrimPrefix(t, "what are ")
	t = strings.TrimSuffix(t, "?")
	return strings.TrimSpace(t)
}

// ExpandTopic returns broadened query phrasings for thin retrieval results,
// starting with the topic itself.
func ExpandTopic(topic string) []string {
	return []string{
		topic,
		topic + " effects",
		topic + " impact",
		topic + " facts",
		topic + " summary",
		topic + " introduction",
		topic + " basics",
		topic + " overview",
		topic + " definition",
	}
}

// MixedTopics is the detection fallback when no category keyword appears.
const MixedTopics = "Mixed Topics"

// maxDetectedTopics caps the detector output.
const maxDetectedTopics = 5

// topicKeywords maps content categories to indicator keywords. Order matters:
// categories earlier in the table win score ties.
var topicKeywords = []struct {
	name     string
	keywords []string
}{
	{"Programming", []string{"python", "javascript", "code", "programming", "function", "class", "variable"}},
	{"Business", []string{"business", "management", "strategy", "market", "customer", "sales"}},
	{"Science", []string{"research", "study", "experiment", "analysis", "data", "theory"}},
	{"Technology", []string{"technology", "software", "system", "network", "computer", "digital"}},
	{"Health", []string{"health", "medical", "patient", "treatment", "disease", "medicine"}},
	{"Finance", []string{"finance", "money", "investment", "financial", "cost", "budget"}},
	{"Education", []string{"education", "learning", "student", "course", "training", "knowledge"}},
}

// DetectContentTopics scores a content preview against the category keyword
// table, counting keyword occurrences in the lowercased text, and returns up
// to five category names, highest score first. A preview matching no category
// yields ["Mixed Topics"].
func DetectContentTopics(preview string) []string {
	lower := strings.ToLower(preview)

	type hit struct {
		name  string
		score int
	}
	hits := make([]hit, 0, len(topicKeywords))
	for _, cat := range topicKeywords {
		score := 0
		for _, kw := range cat.keywords {
			score += strings.Count(lower, kw)
		}
		if score > 0 {
			hits = append(hits, hit{name: cat.name, score: score})
		}
	}
	if len(hits) == 0 {
		return []string{MixedTopics}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > maxDetectedTopics {
		hits = hits[:maxDetectedTopics]
	}

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}
