package main

import (
	"strings"

	"github.com/samber/lo"
)

// buildBoard projects a game onto a fixed-size display board: one scored row
// per guess, then filler rows of blank letters up to TotalGuesses. It never
// mutates the game; calling it twice yields the same board apart from the
// opaque display tokens on filler cells.
func buildBoard(game *Game) Board {
	rows := lo.Map(game.Guesses, func(g Guess, _ int) BoardRow {
		return BoardRow{Letters: computeGuess(g.Word, game.Word)}
	})

	fillerCount := TotalGuesses - len(rows)
	if fillerCount < 0 {
		fillerCount = 0
	}
	fillers := lo.Times(fillerCount, func(_ int) BoardRow {
		return BoardRow{Letters: lo.Times(WordLength, func(_ int) ComputedLetter {
			return newBlankLetter()
		})}
	})

	return Board{
		CurrentGuess: len(game.Guesses),
		Rows:         append(rows, fillers...),
	}
}

// boardToEmoji renders the scored rows of a board as shareable emoji text.
// Filler rows are omitted.
func boardToEmoji(board Board) string {
	played := board.Rows[:board.CurrentGuess]
	lines := lo.Map(played, func(row BoardRow, _ int) string {
		cells := lo.Map(row.Letters, func(l ComputedLetter, _ int) string {
			switch l.State {
			case LetterMatch:
				return "\U0001F7E9" // green square
			case LetterPresent:
				return "\U0001F7E8" // yellow square
			default:
				return "\U0001F7E5" // red square
			}
		})
		return strings.Join(cells, " ")
	})
	return strings.Join(lines, "\n")
}
