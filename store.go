package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver.
)

// GameStore is the persistence contract consumed by GameService. Uniqueness
// of (user, day) and (game, guess) is enforced here, not in-process, so
// concurrent submissions across stateless instances resolve to one winner.
type GameStore interface {
	FindGameForUserAndDay(ctx context.Context, userID, day string) (*Game, error)
	FindGameByID(ctx context.Context, id string) (*Game, error)
	CreateGame(ctx context.Context, userID, word, day string, createdAt time.Time) (*Game, error)
	// AppendGuess persists a guess and the new game status as one
	// transaction; neither is written without the other. It fails with
	// ErrGameComplete if the stored game is already terminal or holds
	// TotalGuesses guesses, regardless of what the caller read earlier.
	AppendGuess(ctx context.Context, gameID, guess string, status GameStatus, at time.Time) error
	UpdateStatus(ctx context.Context, gameID string, status GameStatus, at time.Time) error
	ListGamesForUser(ctx context.Context, userID string) ([]Game, error)
	ListUnfinishedBefore(ctx context.Context, day string) ([]string, error)
}

// UserStore handles accounts and cookie sessions.
type UserStore interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	CreateSession(ctx context.Context, userID string, expiresAt time.Time) (string, error)
	FindSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// SQLStore implements GameStore and UserStore on SQLite.
type SQLStore struct {
	db *sql.DB
}

// OpenStore opens or creates the SQLite database and applies migrations.
func OpenStore(path string) (*SQLStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLStore{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error { return s.db.Close() }

// Ping probes the database connection for health checks.
func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			expires_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			word TEXT NOT NULL,
			status TEXT NOT NULL,
			day TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE(user_id, day)
		);`,
		`CREATE TABLE IF NOT EXISTS guesses (
			game_id TEXT NOT NULL REFERENCES games(id),
			guess TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(game_id, guess)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_day_status ON games(day, status);`,
		`CREATE INDEX IF NOT EXISTS idx_guesses_game ON guesses(game_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on the
// given table.
func isUniqueViolation(err error, table string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, table+".")
}

func (s *SQLStore) FindGameForUserAndDay(ctx context.Context, userID, day string) (*Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, word, status, day, created_at, updated_at
		 FROM games WHERE user_id = ? AND day = ?`, userID, day)
	return s.scanGame(ctx, row)
}

func (s *SQLStore) FindGameByID(ctx context.Context, id string) (*Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, word, status, day, created_at, updated_at
		 FROM games WHERE id = ?`, id)
	return s.scanGame(ctx, row)
}

func (s *SQLStore) scanGame(ctx context.Context, row *sql.Row) (*Game, error) {
	var g Game
	var createdAt, updatedAt string
	err := row.Scan(&g.ID, &g.UserID, &g.Word, &g.Status, &g.Day, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan game: %w", err)
	}
	g.CreatedAt = parseStoredTime(createdAt)
	g.UpdatedAt = parseStoredTime(updatedAt)

	guesses, err := s.loadGuesses(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.Guesses = guesses
	return &g, nil
}

func (s *SQLStore) loadGuesses(ctx context.Context, gameID string) ([]Guess, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT guess, created_at FROM guesses
		 WHERE game_id = ? ORDER BY created_at ASC, rowid ASC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("load guesses: %w", err)
	}
	defer rows.Close()

	guesses := []Guess{}
	for rows.Next() {
		var g Guess
		var createdAt string
		if err := rows.Scan(&g.Word, &createdAt); err != nil {
			return nil, fmt.Errorf("scan guess: %w", err)
		}
		g.CreatedAt = parseStoredTime(createdAt)
		guesses = append(guesses, g)
	}
	return guesses, rows.Err()
}

func (s *SQLStore) CreateGame(ctx context.Context, userID, word, day string, createdAt time.Time) (*Game, error) {
	id := uuid.NewString()
	ts := formatStoredTime(createdAt)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, user_id, word, status, day, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, userID, word, GameEmpty, day, ts, ts)
	if isUniqueViolation(err, "games") {
		return nil, ErrGameExists
	}
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return &Game{
		ID:        id,
		UserID:    userID,
		Word:      word,
		Status:    GameEmpty,
		Day:       day,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		Guesses:   []Guess{},
	}, nil
}

func (s *SQLStore) AppendGuess(ctx context.Context, gameID, guess string, status GameStatus, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append guess: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The insert is conditional on the stored guess count and status, not on
	// whatever the caller read earlier; two instances racing past an in-memory
	// check still resolve to one winner here.
	res, err := tx.ExecContext(ctx,
		`INSERT INTO guesses (game_id, guess, created_at)
		 SELECT ?, ?, ?
		 WHERE (SELECT COUNT(*) FROM guesses WHERE game_id = ?) < ?
		   AND (SELECT status FROM games WHERE id = ?) NOT IN (?, ?)`,
		gameID, guess, formatStoredTime(at),
		gameID, TotalGuesses, gameID, GameWon, GameComplete)
	if isUniqueViolation(err, "guesses") {
		err = ErrDuplicateGuess
		return err
	}
	if err != nil {
		return fmt.Errorf("insert guess: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrGameComplete
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE games SET status = ?, updated_at = ? WHERE id = ?`,
		status, formatStoredTime(at), gameID)
	if err != nil {
		return fmt.Errorf("update game status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit append guess: %w", err)
	}
	return nil
}

func (s *SQLStore) UpdateStatus(ctx context.Context, gameID string, status GameStatus, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET status = ?, updated_at = ? WHERE id = ?`,
		status, formatStoredTime(at), gameID)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (s *SQLStore) ListGamesForUser(ctx context.Context, userID string) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.user_id, g.word, g.status, g.day, g.created_at, g.updated_at,
		        (SELECT COUNT(*) FROM guesses WHERE game_id = g.id)
		 FROM games g WHERE g.user_id = ? ORDER BY g.day DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		var g Game
		var createdAt, updatedAt string
		var guessCount int
		if err := rows.Scan(&g.ID, &g.UserID, &g.Word, &g.Status, &g.Day, &createdAt, &updatedAt, &guessCount); err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		g.CreatedAt = parseStoredTime(createdAt)
		g.UpdatedAt = parseStoredTime(updatedAt)
		g.Guesses = make([]Guess, guessCount)
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *SQLStore) ListUnfinishedBefore(ctx context.Context, day string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM games WHERE day < ? AND status NOT IN (?, ?)`,
		day, GameWon, GameComplete)
	if err != nil {
		return nil, fmt.Errorf("list unfinished games: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLStore) CreateUser(ctx context.Context, email, username, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, username, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Username, u.PasswordHash, formatStoredTime(u.CreatedAt))
	if isUniqueViolation(err, "users") {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *SQLStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.findUser(ctx, `SELECT id, email, username, password_hash, created_at
		FROM users WHERE email = ?`, strings.ToLower(email))
}

func (s *SQLStore) FindUserByID(ctx context.Context, id string) (*User, error) {
	return s.findUser(ctx, `SELECT id, email, username, password_hash, created_at
		FROM users WHERE id = ?`, id)
}

func (s *SQLStore) findUser(ctx context.Context, query, arg string) (*User, error) {
	var u User
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.CreatedAt = parseStoredTime(createdAt)
	return &u, nil
}

func (s *SQLStore) CreateSession(ctx context.Context, userID string, expiresAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`,
		id, userID, formatStoredTime(expiresAt))
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

func (s *SQLStore) FindSession(ctx context.Context, sessionID string) (string, error) {
	var userID string
	var expiresAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, expires_at FROM sessions WHERE id = ?`, sessionID).
		Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find session: %w", err)
	}
	if parseStoredTime(expiresAt).Before(time.Now()) {
		_ = s.DeleteSession(ctx, sessionID)
		return "", ErrSessionNotFound
	}
	return userID, nil
}

func (s *SQLStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

func formatStoredTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		logWarn("Failed to parse stored timestamp %q: %v", s, err)
		return time.Time{}
	}
	return t
}
