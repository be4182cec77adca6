package main

// Game configuration constants
const (
	TotalGuesses = 6 // Maximum number of guesses per game
	WordLength   = 5 // Length of the word to guess
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHome    = "/"
	RouteGuess   = "/guess"
	RouteHistory = "/history"
	RouteLogin   = "/login"
	RouteJoin    = "/join"
	RouteLogout  = "/logout"
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
	RouteSweep   = "/api/sweep"
)

// User-facing rejection messages
const (
	MsgGameComplete   = "Game is already complete."
	MsgInvalidLength  = "You must guess a word of 5 letters."
	MsgUnknownWord    = "That is not a valid word."
	MsgDuplicateGuess = "You already guessed that word."
	MsgGenericFailure = "Something went wrong. Please try again."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
	userKey                 = "current_user"
)

type contextKey string
