package domain

import "strings"

// SourceLabel classifies where a collection's content came from.
type SourceLabel string

const (
	// LabelGeneral means no collection content backs the questions.
	LabelGeneral SourceLabel = "general"
	// LabelPDF marks PDF-sourced content.
	LabelPDF SourceLabel = "pdf"
	// LabelArticle marks web articles.
	LabelArticle SourceLabel = "article"
	// LabelDocx marks Word documents.
	LabelDocx SourceLabel = "docx"
	// LabelPptx marks slide decks.
	LabelPptx SourceLabel = "pptx"
	// LabelTxt marks plain text files.
	LabelTxt SourceLabel = "txt"
	// LabelMixed marks a collection with no dominant source type.
	LabelMixed SourceLabel = "mixed"
	// LabelUnknown marks an unclassifiable filename.
	LabelUnknown SourceLabel = "unknown"
)

// articleIndicators are substring heuristics for article-hosting sources,
// checked as a last resort after URL prefixes and extensions.
var articleIndicators = []string{
	"article", "blog", "news", "post", "medium.com", "substack", "wikipedia",
}

// DetectLabel classifies a single source filename or URL.
func DetectLabel(filename string) SourceLabel {
	if filename == "" {
		return LabelUnknown
	}
	lower := strings.ToLower(filename)

	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return LabelArticle
	}

	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return LabelPDF
	case strings.HasSuffix(lower, ".doc"), strings.HasSuffix(lower, ".docx"):
		return LabelDocx
	case strings.HasSuffix(lower, ".ppt"), strings.HasSuffix(lower, ".pptx"):
		return LabelPptx
	case strings.HasSuffix(lower, ".txt"):
		return LabelTxt
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return LabelArticle
	}

	for _, indicator := range articleIndicators {
		if strings.Contains(lower, indicator) {
			return LabelArticle
		}
	}
	return LabelUnknown
}

// dominanceThreshold is the share one label must exceed to represent the
// whole collection.
const dominanceThreshold = 0.7

// AggregateLabels reduces per-passage labels to a single collection label:
// empty input is general, a single label wins outright, a label above 70%
// of the total wins, anything else is mixed.
func AggregateLabels(labels []SourceLabel) SourceLabel {
	if len(labels) == 0 {
		return LabelGeneral
	}

	counts := make(map[SourceLabel]int, len(labels))
	for _, l := range labels {
		counts[l]++
	}
	if len(counts) == 1 {
		return labels[0]
	}

	total := len(labels)
	for label, count := range counts {
		if float64(count)/float64(total) > dominanceThreshold {
			return label
		}
	}
	return LabelMixed
}
