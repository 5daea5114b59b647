package game

import (
	"fmt"
	"math/rand"
)

// Bank is the validated, immutable question sequence a round draws from.
type Bank struct {
	questions []Question
}

// NewBank rejects malformed content up front so a round never discovers a
// bad question mid-game.
func NewBank(questions []Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyBank
	}
	for i, q := range questions {
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("question %d: %w", i, ErrTooFewOptions)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return nil, fmt.Errorf("question %d: %w", i, ErrCorrectOutOfRange)
		}
	}

	owned := make([]Question, len(questions))
	copy(owned, questions)
	return &Bank{questions: owned}, nil
}

func (b *Bank) Size() int {
	return len(b.questions)
}

// Draw returns n questions in random order without repeats, cycling through
// reshuffles when n exceeds the bank size.
func (b *Bank) Draw(n int, rng *rand.Rand) []Question {
	if n <= 0 {
		return nil
	}

	drawn := make([]Question, 0, n)
	for len(drawn) < n {
		perm := rng.Perm(len(b.questions))
		for _, idx := range perm {
			if len(drawn) == n {
				break
			}
			drawn = append(drawn, b.questions[idx])
		}
	}
	return drawn
}
