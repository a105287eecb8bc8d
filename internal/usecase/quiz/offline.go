package quiz

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/quizdex/internal/domain"
)

// Built-in question sets used when the generation API is unreachable and
// offline fallback is enabled. Deliberately small: the goal is a usable
// quiz, not a good one.
var offlineTemplates = map[string][]domain.Question{
	"python": {
		{
			Stem: "What is the correct way to define a function in Python?",
			Options: []domain.Option{
				{Text: "def function_name():"},
				{Text: "function function_name()"},
				{Text: "def function_name[]"},
				{Text: "function_name() def"},
			},
			CorrectIndex: 0,
			Explanation:  "Functions in Python are defined using the 'def' keyword followed by the function name and parentheses.",
			Source:       domain.SourceGeneral,
		},
		{
			Stem: "Which of the following is used to handle exceptions in Python?",
			Options: []domain.Option{
				{Text: "try-catch"},
				{Text: "try-except"},
				{Text: "try-finally"},
				{Text: "catch-throw"},
			},
			CorrectIndex: 1,
			Explanation:  "Python uses try-except blocks to handle exceptions.",
			Source:       domain.SourceGeneral,
		},
	},
	"general": {
		{
			Stem: "What is the primary purpose of version control systems?",
			Options: []domain.Option{
				{Text: "To track changes in code over time"},
				{Text: "To compile code faster"},
				{Text: "To debug applications"},
				{Text: "To optimize performance"},
			},
			CorrectIndex: 0,
			Explanation:  "Version control systems track changes in code, allowing developers to manage different versions and collaborate effectively.",
			Source:       domain.SourceGeneral,
		},
		{
			Stem: "Which of the following is a best practice for writing clean code?",
			Options: []domain.Option{
				{Text: "Use meaningful variable names"},
				{Text: "Write very long functions"},
				{Text: "Avoid comments entirely"},
				{Text: "Use single-letter variable names"},
			},
			CorrectIndex: 0,
			Explanation:  "Using meaningful variable names makes code more readable and maintainable.",
			Source:       domain.SourceGeneral,
		},
	},
}

// offlineQuestions produces n template questions for a topic family,
// cycling the templates and prefixing repeats to avoid exact duplicates.
func offlineQuestions(topic string, n int) []domain.Question {
	key := "general"
	if strings.Contains(strings.ToLower(topic), "python") {
		key = "python"
	}
	templates := offlineTemplates[key]

	questions := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		q := templates[i%len(templates)]
		if i >= len(templates) {
			q.Stem = fmt.Sprintf("[Question %d] %s", i+1, q.Stem)
		}
		questions = append(questions, q)
	}
	return questions
}
