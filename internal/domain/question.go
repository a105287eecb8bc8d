package domain

// SourceGeneral marks a question drawn from general knowledge rather than
// retrieved content.
const SourceGeneral = "general"

// Option is a single answer choice.
type Option struct {
	Text string `json:"text"`
}

// Question is one validated multiple-choice question.
type Question struct {
	Stem         string   `json:"stem"`
	Options      []Option `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
	Source       string   `json:"source"`
}

// ValidationOutcome reports what Normalize did to a candidate question.
type ValidationOutcome int

const (
	// QuestionOK means the question passed validation unchanged.
	QuestionOK ValidationOutcome = iota
	// QuestionCorrected means correct_index was out of range and reset to 0.
	QuestionCorrected
	// QuestionDropped means the question had fewer than 2 options.
	QuestionDropped
)

// Normalize fills defaults and enforces the question invariants in place.
// A question with fewer than 2 options is dropped; an out-of-range
// correct_index is clamped to 0 rather than dropping the question.
func (q *Question) Normalize() ValidationOutcome {
	if q.Explanation == "" {
		q.Explanation = "No explanation provided."
	}
	if q.Source == "" {
		q.Source = SourceGeneral
	}
	if len(q.Options) < 2 {
		return QuestionDropped
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		q.CorrectIndex = 0
		return QuestionCorrected
	}
	return QuestionOK
}

// CorrectText returns the text of the currently-correct option.
// Callers must only use it on normalized questions.
func (q Question) CorrectText() string {
	return q.Options[q.CorrectIndex].Text
}

// QuizVariant is one independently generated quiz instance.
type QuizVariant struct {
	VariantID int        `json:"variant_id"`
	Questions []Question `json:"questions"`
	// Error holds the failure cause when this variant could not be
	// generated; Questions is empty in that case.
	Error string `json:"error,omitempty"`
}

// QuizResult is the final result set handed to the caller. Created fresh per
// generation call and never mutated afterwards.
type QuizResult struct {
	ID            string        `json:"id"`
	Topic         string        `json:"topic"`
	NumQuestions  int           `json:"num_questions"`
	Difficulty    string        `json:"difficulty"`
	EmployeeLevel string        `json:"employee_level"`
	Variants      []QuizVariant `json:"variants"`
}
