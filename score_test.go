package main

import (
	"strings"
	"testing"
)

// states is a shorthand for comparing classification sequences.
func states(computed []ComputedLetter) []LetterState {
	out := make([]LetterState, len(computed))
	for i, l := range computed {
		out[i] = l.State
	}
	return out
}

func statesEqual(got, want []LetterState) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// TestComputeGuess checks the two-pass guess evaluation algorithm, including
// the duplicate-letter regression vectors.
func TestComputeGuess(t *testing.T) {
	tests := []struct {
		name   string
		guess  string
		answer string
		want   []LetterState
	}{
		{
			name:   "all match",
			guess:  "apple",
			answer: "apple",
			want:   []LetterState{LetterMatch, LetterMatch, LetterMatch, LetterMatch, LetterMatch},
		},
		{
			name:   "all miss",
			guess:  "crumb",
			answer: "those",
			want:   []LetterState{LetterMiss, LetterMiss, LetterMiss, LetterMiss, LetterMiss},
		},
		{
			name:   "duplicate guess letters left bias",
			guess:  "allol",
			answer: "colon",
			want:   []LetterState{LetterMiss, LetterMiss, LetterMatch, LetterMatch, LetterMiss},
		},
		{
			name:   "surplus duplicates with one match",
			guess:  "boost",
			answer: "basic",
			want:   []LetterState{LetterMatch, LetterMiss, LetterMiss, LetterPresent, LetterMiss},
		},
		{
			name:   "present letters in wrong positions",
			guess:  "etabl",
			answer: "table",
			want:   []LetterState{LetterPresent, LetterPresent, LetterPresent, LetterPresent, LetterPresent},
		},
	}

	for _, tt := range tests {
		got := computeGuess(tt.guess, tt.answer)
		if len(got) != len(tt.guess) {
			t.Errorf("%s: got %d entries, want %d", tt.name, len(got), len(tt.guess))
			continue
		}
		if !statesEqual(states(got), tt.want) {
			t.Errorf("%s: computeGuess(%q, %q) = %v, want %v",
				tt.name, tt.guess, tt.answer, states(got), tt.want)
		}
		for i, l := range got {
			if l.Letter != string(tt.guess[i]) {
				t.Errorf("%s: entry %d has letter %q, want %q", tt.name, i, l.Letter, string(tt.guess[i]))
			}
			if l.ID == "" {
				t.Errorf("%s: entry %d has empty display token", tt.name, i)
			}
		}
	}
}

// TestComputeGuess_LengthMismatch checks that mismatched lengths cannot be scored.
func TestComputeGuess_LengthMismatch(t *testing.T) {
	tests := []struct {
		guess  string
		answer string
	}{
		{"cat", "table"},
		{"tables", "table"},
		{"", "table"},
		{"table", ""},
	}
	for _, tt := range tests {
		if got := computeGuess(tt.guess, tt.answer); len(got) != 0 {
			t.Errorf("computeGuess(%q, %q) returned %d entries, want 0", tt.guess, tt.answer, len(got))
		}
	}
}

// TestComputeGuess_LetterConservation checks that no letter is credited more
// often than it occurs in both guess and answer.
func TestComputeGuess_LetterConservation(t *testing.T) {
	pairs := []struct{ guess, answer string }{
		{"allol", "colon"},
		{"boost", "basic"},
		{"eerie", "melee"},
		{"lllll", "hello"},
		{"mamma", "amman"},
		{"apple", "pulpy"},
	}
	for _, p := range pairs {
		got := computeGuess(p.guess, p.answer)
		for letter := byte('a'); letter <= 'z'; letter++ {
			credited := 0
			for i, l := range got {
				if p.guess[i] == letter && (l.State == LetterMatch || l.State == LetterPresent) {
					credited++
				}
			}
			inGuess := strings.Count(p.guess, string(letter))
			inAnswer := strings.Count(p.answer, string(letter))
			limit := inGuess
			if inAnswer < limit {
				limit = inAnswer
			}
			if credited > limit {
				t.Errorf("computeGuess(%q, %q): letter %q credited %d times, limit %d",
					p.guess, p.answer, string(letter), credited, limit)
			}
		}
	}
}

// TestIsWinningGuess checks win detection over computed results.
func TestIsWinningGuess(t *testing.T) {
	if !isWinningGuess(computeGuess("apple", "apple")) {
		t.Error("Expected a full match to win")
	}
	if isWinningGuess(computeGuess("apply", "apple")) {
		t.Error("Expected a partial match not to win")
	}
	if isWinningGuess(nil) {
		t.Error("Expected an unscorable guess not to win")
	}
}

// TestNewBlankLetter checks filler letters are blank with fresh tokens.
func TestNewBlankLetter(t *testing.T) {
	a := newBlankLetter()
	b := newBlankLetter()
	if a.State != LetterBlank || a.Letter != "" {
		t.Errorf("newBlankLetter() = %+v, want blank with empty letter", a)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Error("Expected distinct non-empty display tokens")
	}
}
