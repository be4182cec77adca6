package main

import (
	"strings"

	"github.com/google/uuid"
)

// newBlankLetter returns a filler letter with a fresh display token.
func newBlankLetter() ComputedLetter {
	return ComputedLetter{ID: uuid.NewString(), Letter: "", State: LetterBlank}
}

// computeGuess scores a guess against the answer and returns one entry per
// guessed letter, in guess order. A length mismatch yields nil, which callers
// must treat as "cannot be scored" rather than a zero-match result.
//
// Two passes. The first marks exact positions as Match and everything else
// provisionally as Present or Miss, while tallying answer letters at each
// guess index. The tally deliberately counts every answer position, matched
// or not; the second pass relies on that exact bookkeeping when demoting
// surplus Present letters, so duplicates resolve left to right with exact
// matches taking precedence. Validated against fixed vectors in the tests;
// do not re-derive the counting from first principles.
func computeGuess(guess, answer string) []ComputedLetter {
	if len(guess) != len(answer) {
		return nil
	}

	result := make([]ComputedLetter, 0, len(guess))
	counts := make(map[byte]int, len(answer))

	for i := 0; i < len(guess); i++ {
		counts[answer[i]]++

		state := LetterMiss
		switch {
		case guess[i] == answer[i]:
			state = LetterMatch
		case strings.IndexByte(answer, guess[i]) >= 0:
			state = LetterPresent
		}
		result = append(result, ComputedLetter{
			ID:     uuid.NewString(),
			Letter: string(guess[i]),
			State:  state,
		})
	}

	for i := range result {
		if result[i].State != LetterPresent {
			continue
		}
		letter := guess[i]
		for j := 0; j < len(answer); j++ {
			if answer[j] != letter {
				continue
			}
			if result[j].State == LetterMatch {
				result[i].State = LetterMiss
			}
			if counts[letter] <= 0 {
				result[i].State = LetterMiss
			}
		}
		counts[letter]--
	}

	return result
}

// isWinningGuess reports whether every scored letter is an exact match.
func isWinningGuess(computed []ComputedLetter) bool {
	if len(computed) == 0 {
		return false
	}
	for _, l := range computed {
		if l.State != LetterMatch {
			return false
		}
	}
	return true
}
