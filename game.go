package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// GameService owns the lifecycle of daily games. It holds its collaborators
// explicitly instead of reaching for process-wide state, so multiple stateless
// instances can run against the same store.
type GameService struct {
	store GameStore
	dict  *Dictionary
	sched Scheduler
	now   func() time.Time
}

// NewGameService wires a lifecycle manager from its collaborators. A nil
// clock defaults to time.Now.
func NewGameService(store GameStore, dict *Dictionary, sched Scheduler, now func() time.Time) *GameService {
	if now == nil {
		now = time.Now
	}
	return &GameService{store: store, dict: dict, sched: sched, now: now}
}

// TodaysGame returns the user's game for the current server-local day,
// creating it lazily with a fresh secret word when absent. Creation schedules
// the end-of-day completion sweep for the new game.
func (s *GameService) TodaysGame(ctx context.Context, userID string) (*Game, error) {
	now := s.now()
	day := dayKey(now)

	game, err := s.store.FindGameForUserAndDay(ctx, userID, day)
	if err == nil {
		return game, nil
	}
	if !errors.Is(err, ErrGameNotFound) {
		return nil, fmt.Errorf("find todays game: %w", err)
	}

	game, err = s.store.CreateGame(ctx, userID, s.dict.PickSecretWord(), day, now)
	if errors.Is(err, ErrGameExists) {
		// Lost a creation race; the winner's game is the day's game.
		return s.store.FindGameForUserAndDay(ctx, userID, day)
	}
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	logInfo("Created game %s for user %s (day %s)", game.ID, userID, day)
	gamesCreatedTotal.Inc()

	if err := s.sched.Schedule(ctx, game.ID, endOfDay(now)); err != nil {
		// The sweep endpoint picks up games the scheduler missed.
		logWarn("Failed to schedule completion sweep for game %s: %v", game.ID, err)
	}
	return game, nil
}

// CreateGuess validates and applies one guess to the user's current game.
// Rejections come back as the sentinel errors in errors.go and never persist
// a guess; the guess and the status transition are written atomically.
func (s *GameService) CreateGuess(ctx context.Context, userID, rawWord string) (*Game, error) {
	guess := strings.ToLower(strings.TrimSpace(rawWord))

	game, err := s.TodaysGame(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(game.Guesses) >= TotalGuesses || game.Status.Terminal() {
		return nil, ErrGameComplete
	}
	if len(guess) != WordLength {
		return nil, ErrInvalidLength
	}
	if !s.dict.IsValidGuess(guess) {
		return nil, ErrUnknownWord
	}
	if lo.ContainsBy(game.Guesses, func(g Guess) bool { return g.Word == guess }) {
		return nil, ErrDuplicateGuess
	}

	computed := computeGuess(guess, game.Word)
	next := GameInProgress
	switch {
	case isWinningGuess(computed):
		next = GameWon
	case len(game.Guesses)+1 >= TotalGuesses:
		next = GameComplete
	}

	now := s.now()
	if err := s.store.AppendGuess(ctx, game.ID, guess, next, now); err != nil {
		// Concurrent submissions surface here: the same word as
		// ErrDuplicateGuess, a filled quota as ErrGameComplete. Exactly one
		// writer wins.
		return nil, err
	}

	game.Guesses = append(game.Guesses, Guess{Word: guess, CreatedAt: now})
	game.Status = next
	game.UpdatedAt = now
	guessesTotal.WithLabelValues(string(next)).Inc()
	logInfo("User %s guessed %q on game %s (attempt %d/%d, status %s)",
		userID, guess, game.ID, len(game.Guesses), TotalGuesses, next)

	if next.Terminal() {
		if next == GameWon {
			gamesWonTotal.Inc()
		}
		// Best effort: the sweep handler is idempotent anyway.
		if err := s.sched.Cancel(ctx, game.ID); err != nil {
			logWarn("Failed to cancel completion sweep for game %s: %v", game.ID, err)
		}
	}
	return game, nil
}

// GameByID returns one of the user's games. Games that do not exist and games
// owned by someone else are indistinguishable to the caller.
func (s *GameService) GameByID(ctx context.Context, userID, gameID string) (*Game, error) {
	game, err := s.store.FindGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.UserID != userID {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// History lists the user's games, newest day first.
func (s *GameService) History(ctx context.Context, userID string) ([]Game, error) {
	return s.store.ListGamesForUser(ctx, userID)
}

// MarkCompleteIfUnfinished forces a game to COMPLETE once its day has
// elapsed. Safe to call repeatedly, after the game is already terminal, or
// for a game that no longer exists.
func (s *GameService) MarkCompleteIfUnfinished(ctx context.Context, gameID string) error {
	game, err := s.store.FindGameByID(ctx, gameID)
	if errors.Is(err, ErrGameNotFound) {
		logInfo("Sweep: game %s not found, nothing to do", gameID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("sweep lookup: %w", err)
	}
	if game.Status.Terminal() {
		logInfo("Sweep: game %s already %s", gameID, game.Status)
		return nil
	}
	if err := s.store.UpdateStatus(ctx, gameID, GameComplete, s.now()); err != nil {
		if errors.Is(err, ErrGameNotFound) {
			return nil
		}
		return fmt.Errorf("sweep update: %w", err)
	}
	gamesSweptTotal.Inc()
	logInfo("Sweep: game %s marked complete", gameID)
	return nil
}

// SweepStale force-completes every unfinished game from previous days. It is
// the recovery path when scheduled jobs were lost.
func (s *GameService) SweepStale(ctx context.Context) (int, error) {
	ids, err := s.store.ListUnfinishedBefore(ctx, dayKey(s.now()))
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, id := range ids {
		if err := s.MarkCompleteIfUnfinished(ctx, id); err != nil {
			logWarn("Sweep: failed to complete game %s: %v", id, err)
			continue
		}
		swept++
	}
	return swept, nil
}
