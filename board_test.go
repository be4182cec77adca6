package main

import (
	"strings"
	"testing"
	"time"
)

func gameWithGuesses(word string, guesses ...string) *Game {
	g := &Game{
		ID:     "game-1",
		UserID: "user-1",
		Word:   word,
		Status: GameInProgress,
		Day:    "2026-08-28",
	}
	for i, guess := range guesses {
		g.Guesses = append(g.Guesses, Guess{
			Word:      guess,
			CreatedAt: time.Date(2026, 8, 28, 12, 0, i, 0, time.Local),
		})
	}
	return g
}

// TestBuildBoard_Dimensions checks the board always has the fixed shape.
func TestBuildBoard_Dimensions(t *testing.T) {
	allGuesses := []string{"table", "chair", "bench", "shelf", "porch", "stone"}
	for n := 0; n <= TotalGuesses; n++ {
		game := gameWithGuesses("apple", allGuesses[:n]...)
		board := buildBoard(game)

		if len(board.Rows) != TotalGuesses {
			t.Errorf("%d guesses: got %d rows, want %d", n, len(board.Rows), TotalGuesses)
		}
		for i, row := range board.Rows {
			if len(row.Letters) != WordLength {
				t.Errorf("%d guesses: row %d has %d letters, want %d", n, i, len(row.Letters), WordLength)
			}
		}
		if board.CurrentGuess != n {
			t.Errorf("%d guesses: CurrentGuess = %d, want %d", n, board.CurrentGuess, n)
		}
	}
}

// TestBuildBoard_FillerRows checks that rows past the guess history are blank.
func TestBuildBoard_FillerRows(t *testing.T) {
	game := gameWithGuesses("apple", "table", "chair")
	board := buildBoard(game)

	for i, row := range board.Rows[2:] {
		for j, l := range row.Letters {
			if l.State != LetterBlank || l.Letter != "" {
				t.Errorf("filler row %d letter %d = %+v, want blank", i+2, j, l)
			}
			if l.ID == "" {
				t.Errorf("filler row %d letter %d has empty display token", i+2, j)
			}
		}
	}
}

// TestBuildBoard_ScoredRows checks guesses are rescored against the secret.
func TestBuildBoard_ScoredRows(t *testing.T) {
	game := gameWithGuesses("apple", "apple")
	board := buildBoard(game)

	for i, l := range board.Rows[0].Letters {
		if l.State != LetterMatch {
			t.Errorf("letter %d = %v, want match", i, l.State)
		}
	}
}

// TestBuildBoard_DoesNotMutateGame checks projection is side-effect free.
func TestBuildBoard_DoesNotMutateGame(t *testing.T) {
	game := gameWithGuesses("apple", "table")
	_ = buildBoard(game)
	_ = buildBoard(game)

	if len(game.Guesses) != 1 {
		t.Errorf("game has %d guesses after projection, want 1", len(game.Guesses))
	}
	if game.Status != GameInProgress {
		t.Errorf("game status changed to %v", game.Status)
	}
}

// TestBoardToEmoji checks share text covers only played rows.
func TestBoardToEmoji(t *testing.T) {
	game := gameWithGuesses("apple", "ample", "apple")
	share := boardToEmoji(buildBoard(game))

	lines := strings.Split(share, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d share lines, want 2", len(lines))
	}
	if strings.Contains(share, string(LetterBlank)) {
		t.Error("share text leaked filler cells")
	}
	for _, line := range lines {
		if len(strings.Split(line, " ")) != WordLength {
			t.Errorf("share line %q does not have %d cells", line, WordLength)
		}
	}
}

// TestBoardToEmoji_NoGuesses checks an untouched board shares as empty text.
func TestBoardToEmoji_NoGuesses(t *testing.T) {
	game := gameWithGuesses("apple")
	if share := boardToEmoji(buildBoard(game)); share != "" {
		t.Errorf("boardToEmoji on empty board = %q, want empty", share)
	}
}
