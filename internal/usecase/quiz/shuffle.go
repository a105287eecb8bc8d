package quiz

import (
	"math/rand"

	"github.com/kailas-cloud/quizdex/internal/domain"
)

// shuffleSeedFactor makes the per-variant shuffle deterministic and distinct.
const shuffleSeedFactor = 42

// shuffleVariant reorders every question's options with a deterministic
// per-variant permutation. The correct answer is tracked by option text, not
// index, and correct_index is recomputed after the shuffle. Questions and
// their relative order are untouched.
func shuffleVariant(questions []domain.Question, variantID int) []domain.Question {
	rng := rand.New(rand.NewSource(int64(variantID) * shuffleSeedFactor))

	out := make([]domain.Question, len(questions))
	for i, q := range questions {
		correctText := q.CorrectText()

		options := make([]domain.Option, len(q.Options))
		copy(options, q.Options)
		rng.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})

		newIndex := 0
		for j, opt := range options {
			if opt.Text == correctText {
				newIndex = j
				break
			}
		}

		q.Options = options
		q.CorrectIndex = newIndex
		out[i] = q
	}
	return out
}
