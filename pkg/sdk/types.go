package quizdex

import "github.com/kailas-cloud/quizdex/internal/domain"

// QuizRequest describes one quiz generation call.
type QuizRequest struct {
	Topic         string
	NumQuestions  int    // default 5
	Difficulty    string // default "medium"
	EmployeeLevel string // default "mid"
	NumVariants   int    // default 1
	CollectionID  string
	// AllContent quizzes the whole collection; Topic then serves only as
	// a hint.
	AllContent bool
}

func (r *QuizRequest) applyDefaults() {
	if r.NumQuestions == 0 {
		r.NumQuestions = 5
	}
	if r.NumVariants == 0 {
		r.NumVariants = 1
	}
	if r.Difficulty == "" {
		r.Difficulty = "medium"
	}
	if r.EmployeeLevel == "" {
		r.EmployeeLevel = "mid"
	}
}

// Quiz is a generated quiz with its variants.
type Quiz struct {
	ID            string
	Topic         string
	NumQuestions  int
	Difficulty    string
	EmployeeLevel string
	Variants      []Variant
}

// Variant is one independently generated quiz instance. Err is non-empty
// when this variant failed; Questions is empty in that case.
type Variant struct {
	VariantID int
	Questions []Question
	Err       string
}

// Question is one multiple-choice question.
type Question struct {
	Stem         string
	Options      []string
	CorrectIndex int
	Explanation  string
	Source       string
}

func quizFromDomain(r *domain.QuizResult) Quiz {
	variants := make([]Variant, 0, len(r.Variants))
	for _, v := range r.Variants {
		questions := make([]Question, 0, len(v.Questions))
		for _, q := range v.Questions {
			options := make([]string, 0, len(q.Options))
			for _, opt := range q.Options {
				options = append(options, opt.Text)
			}
			questions = append(questions, Question{
				Stem:         q.Stem,
				Options:      options,
				CorrectIndex: q.CorrectIndex,
				Explanation:  q.Explanation,
				Source:       q.Source,
			})
		}
		variants = append(variants, Variant{
			VariantID: v.VariantID,
			Questions: questions,
			Err:       v.Error,
		})
	}
	return Quiz{
		ID:            r.ID,
		Topic:         r.Topic,
		NumQuestions:  r.NumQuestions,
		Difficulty:    r.Difficulty,
		EmployeeLevel: r.EmployeeLevel,
		Variants:      variants,
	}
}
