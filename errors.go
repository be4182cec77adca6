package main

import "errors"

// Guess rejections. These cross the service boundary as values so handlers
// can render an inline message; anything else is treated as an internal
// failure and kept out of the response body.
var (
	ErrInvalidLength  = errors.New("guess has wrong length")
	ErrUnknownWord    = errors.New("word not in dictionary")
	ErrDuplicateGuess = errors.New("word already guessed in this game")
	ErrGameComplete   = errors.New("game is already complete")
)

// Store-level sentinels.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameExists      = errors.New("game already exists for this day")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrSessionNotFound = errors.New("session not found")
)

// rejectionMessage maps a CreateGuess error to the message shown to the
// player. Unexpected errors collapse to a generic message; the detail stays
// in the logs.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, ErrGameComplete):
		return MsgGameComplete
	case errors.Is(err, ErrInvalidLength):
		return MsgInvalidLength
	case errors.Is(err, ErrUnknownWord):
		return MsgUnknownWord
	case errors.Is(err, ErrDuplicateGuess):
		return MsgDuplicateGuess
	default:
		return MsgGenericFailure
	}
}

// isRejection reports whether err is one of the expected guess rejections,
// as opposed to an internal failure worth logging loudly.
func isRejection(err error) bool {
	return errors.Is(err, ErrGameComplete) ||
		errors.Is(err, ErrInvalidLength) ||
		errors.Is(err, ErrUnknownWord) ||
		errors.Is(err, ErrDuplicateGuess)
}
