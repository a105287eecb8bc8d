package quiz

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/quizdex/internal/domain"
)

const (
	// maxContextPassages bounds how many passages enter one prompt.
	maxContextPassages = 20
	// maxContextChars keeps the joined context inside model limits.
	maxContextChars = 16000
)

// promptParams carries everything a prompt needs.
type promptParams struct {
	Topic      string
	Count      int
	Difficulty string
	Level      string
	Passages   []string
	Ratio      domain.ContentRatioPolicy
	Label      domain.SourceLabel
	VariantID  int
	Diversify  bool

	// All-content extras.
	TopicHint      string
	DetectedTopics []string
	RelevanceScore float64
}

const systemPrompt = "You are an expert examiner. You respond with a single valid JSON array and nothing else."

// buildTopicPrompt renders the content-aware prompt for topic-driven
// generation, including the ratio split and variant diversification block.
func buildTopicPrompt(p promptParams) string {
	context := "No relevant content found."
	if len(p.Passages) > 0 {
		context = joinContext(p.Passages, "\n\n---\n\n")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert examiner creating %d multiple-choice questions on %q for a %s employee. Difficulty: %s.\n\n",
		p.Count, p.Topic, p.Level, p.Difficulty)
	fmt.Fprintf(&b, "CONTENT FROM UPLOADED SOURCES:\n\"\"\"%s\"\"\"\n\n", context)
	b.WriteString("CRITICAL INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "1. PRIORITIZE UPLOADED CONTENT: the content above was retrieved for %q and is your primary source. Questions based on it use \"source\": %q; only use \"source\": \"general\" when the content is insufficient.\n",
		p.Topic, string(p.Label))
	fmt.Fprintf(&b, "2. GENERATION STRATEGY: approximately %d%% of questions from the uploaded content (\"source\": %q) and %d%% from general knowledge (\"source\": \"general\").\n",
		p.Ratio.ContentPct, string(p.Label), p.Ratio.GeneralPct)
	b.WriteString("3. QUALITY: vary correct_index across positions, include brief explanations (1-2 sentences), make all 4 options plausible with exactly one correct.\n")
	writeFormatRules(&b, string(p.Label))

	if block := diversificationBlock(p); block != "" {
		b.WriteString(block)
	}

	fmt.Fprintf(&b, "\n\nIMPORTANT: You must generate exactly %d questions in a single JSON array. Do not return fewer.", p.Count)
	return b.String()
}

// buildAllContentPrompt renders the prompt for all-content mode, where the
// whole collection is the context and the user topic is only a hint.
func buildAllContentPrompt(p promptParams) string {
	context := joinContext(p.Passages, "\n\n")

	hint := p.TopicHint
	if hint == "" {
		hint = "Not specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert examiner creating %d multiple-choice questions from the uploaded content for a %s employee. Difficulty: %s.\n\n",
		p.Count, p.Level, p.Difficulty)
	fmt.Fprintf(&b, "CONTENT FROM UPLOADED SOURCES:\n\"\"\"%s\"\"\"\n\n", context)
	fmt.Fprintf(&b, "USER CONTEXT:\n- User requested topic: %s\n- Detected content topics: %s\n- Content relevance to user topic: %s\n\n",
		hint, detectedTopicsLine(p.DetectedTopics), relevanceBand(p.RelevanceScore))
	b.WriteString("CRITICAL INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "1. SMART CONTENT UTILIZATION: approximately %d%% of questions from the uploaded content above (\"source\": %q) and %d%% from %s (\"source\": \"general\").\n",
		p.Ratio.ContentPct, string(p.Label), p.Ratio.GeneralPct, generalSourceHint(p))
	b.WriteString("2. INTELLIGENT TOPIC HANDLING: if the content covers the requested topic, prioritize the overlap; if it does not, draw questions from both; always test understanding of the actual uploaded material.\n")
	b.WriteString("3. QUALITY: vary correct_index across positions, include brief explanations (1-2 sentences), make all 4 options plausible with exactly one correct.\n")
	writeFormatRules(&b, string(p.Label))
	fmt.Fprintf(&b, "\n\nIMPORTANT: You must generate exactly %d questions in a single JSON array. Do not return fewer.", p.Count)
	return b.String()
}

// diversificationBlock biases even variants toward general knowledge and odd
// variants toward content, so multiple variants never collapse to one mix.
func diversificationBlock(p promptParams) string {
	if !p.Diversify {
		return ""
	}
	if p.VariantID%2 == 0 {
		return fmt.Sprintf("\nVARIANT DIVERSIFICATION: this is variant %d. To ensure variety across variants, focus more on general knowledge while still incorporating highly relevant %s content: %d%% general knowledge and %d%% %s-based questions.",
			p.VariantID, string(p.Label), p.Ratio.GeneralPct, p.Ratio.ContentPct, string(p.Label))
	}
	return fmt.Sprintf("\nVARIANT DIVERSIFICATION: this is variant %d. To ensure variety across variants, prioritize %s content: %d%% %s-based questions and %d%% general knowledge.",
		p.VariantID, string(p.Label), p.Ratio.ContentPct, string(p.Label), p.Ratio.GeneralPct)
}

func writeFormatRules(b *strings.Builder, label string) {
	b.WriteString("4. STRICT JSON FORMAT: return ONLY a valid JSON array; each question has exactly the fields \"stem\", \"options\", \"correct_index\", \"explanation\", \"source\"; each option is exactly {\"text\": \"option text\"}; no trailing commas, no markdown, no thinking tags.\n\n")
	fmt.Fprintf(b, `Return EXACTLY this format (complete and valid JSON):
[
  {
    "stem": "Question text here?",
    "options": [
      {"text": "Option A"},
      {"text": "Option B"},
      {"text": "Option C"},
      {"text": "Option D"}
    ],
    "correct_index": 0,
    "explanation": "Brief explanation here.",
    "source": %q
  }
]`, label)
}

// joinContext joins up to maxContextPassages passages, bounded by
// maxContextChars.
func joinContext(passages []string, sep string) string {
	if len(passages) > maxContextPassages {
		passages = passages[:maxContextPassages]
	}
	joined := strings.Join(passages, sep)
	if len(joined) > maxContextChars {
		joined = joined[:maxContextChars]
	}
	return joined
}

func relevanceBand(score float64) string {
	switch {
	case score > 0.7:
		return "High"
	case score > 0.3:
		return "Medium"
	default:
		return "Low"
	}
}

// detectedTopicsLine renders up to three detected categories for the prompt's
// USER CONTEXT block.
func detectedTopicsLine(topics []string) string {
	if len(topics) == 0 {
		return "Mixed topics"
	}
	if len(topics) > 3 {
		topics = topics[:3]
	}
	return strings.Join(topics, ", ")
}

func generalSourceHint(p promptParams) string {
	if p.TopicHint != "" && p.RelevanceScore < 0.5 {
		return fmt.Sprintf("the user's requested topic: %s", p.TopicHint)
	}
	return "general knowledge"
}
