package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// homeHandler renders today's board for the signed-in user, creating the
// day's game on first access.
func (app *App) homeHandler(c *gin.Context) {
	app.renderGame(c, "")
}

// guessHandler processes one guess submission. Rejections re-render the board
// with an inline message; internal failures render a generic one.
func (app *App) guessHandler(c *gin.Context) {
	user := userFrom(c)
	_, err := app.Games.CreateGuess(c.Request.Context(), user.ID, c.PostForm("guess"))
	if err != nil {
		if isRejection(err) {
			guessRejectionsTotal.WithLabelValues(err.Error()).Inc()
		} else {
			logWarn("Guess failed for user %s: %v", user.ID, err)
		}
		app.renderGame(c, rejectionMessage(err))
		return
	}
	app.renderGame(c, "")
}

// renderGame loads today's game and renders the board page.
func (app *App) renderGame(c *gin.Context, errMsg string) {
	user := userFrom(c)
	game, err := app.Games.TodaysGame(c.Request.Context(), user.ID)
	if err != nil {
		logWarn("Failed to resolve todays game for user %s: %v", user.ID, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"message": MsgGenericFailure})
		return
	}

	board := buildBoard(game)
	data := gin.H{
		"title":    "Tagvorto - Guess the word of the day",
		"user":     user,
		"board":    board,
		"status":   game.Status,
		"gameOver": game.Status.Terminal(),
		"won":      game.Status == GameWon,
		"error":    errMsg,
	}
	if game.Status.Terminal() {
		data["word"] = game.Word
		data["share"] = boardToEmoji(board)
	}
	c.HTML(http.StatusOK, "index.html", data)
}

// historyHandler lists the user's past games.
func (app *App) historyHandler(c *gin.Context) {
	user := userFrom(c)
	games, err := app.Games.History(c.Request.Context(), user.ID)
	if err != nil {
		logWarn("Failed to list history for user %s: %v", user.ID, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"message": MsgGenericFailure})
		return
	}
	c.HTML(http.StatusOK, "history.html", gin.H{
		"title": "Tagvorto - History",
		"user":  user,
		"games": games,
	})
}

// historyGameHandler shows one finished game. A game the user does not own is
// a 404, same as a game that never existed.
func (app *App) historyGameHandler(c *gin.Context) {
	user := userFrom(c)
	game, err := app.Games.GameByID(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		if !errors.Is(err, ErrGameNotFound) {
			logWarn("Failed to load game %s: %v", c.Param("id"), err)
		}
		c.HTML(http.StatusNotFound, "error.html", gin.H{"message": "Not found"})
		return
	}

	// Today's unfinished game belongs on the board page; rendering it here
	// would reveal the secret word mid-game.
	if !game.Status.Terminal() && game.Day == dayKey(timeNow()) {
		c.Redirect(http.StatusSeeOther, RouteHome)
		return
	}

	// A historical game that was never finished reads as complete.
	status := game.Status
	if !status.Terminal() {
		status = GameComplete
	}
	board := buildBoard(game)
	c.HTML(http.StatusOK, "game.html", gin.H{
		"title":  "Tagvorto - " + game.Day,
		"user":   user,
		"game":   game,
		"board":  board,
		"status": status,
		"won":    status == GameWon,
		"word":   game.Word,
		"share":  boardToEmoji(board),
	})
}

type joinForm struct {
	Email    string `form:"email" binding:"required,email"`
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required,min=10"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=10"`
}

// joinPageHandler renders the sign-up form.
func (app *App) joinPageHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "join.html", gin.H{"title": "Tagvorto - Sign up"})
}

// joinHandler creates an account and signs the user in.
func (app *App) joinHandler(c *gin.Context) {
	var form joinForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "join.html", gin.H{
			"title": "Tagvorto - Sign up",
			"error": "Enter a valid email, a username and a password of at least 10 characters.",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		logWarn("Failed to hash password: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"message": MsgGenericFailure})
		return
	}

	user, err := app.Users.CreateUser(c.Request.Context(), form.Email, form.Username, string(hash))
	if errors.Is(err, ErrEmailTaken) {
		c.HTML(http.StatusBadRequest, "join.html", gin.H{
			"title": "Tagvorto - Sign up",
			"error": "A user already exists with this email.",
		})
		return
	}
	if err != nil {
		logWarn("Failed to create user: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"message": MsgGenericFailure})
		return
	}

	if err := app.beginSession(c, user.ID); err != nil {
		logWarn("Failed to create session: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"message": MsgGenericFailure})
		return
	}
	c.Redirect(http.StatusSeeOther, RouteHome)
}

// loginPageHandler renders the login form.
func (app *App) loginPageHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"title": "Tagvorto - Log in"})
}

// loginHandler verifies credentials and starts a session. Unknown email and
// wrong password produce the same message.
func (app *App) loginHandler(c *gin.Context) {
	var form loginForm
	invalid := func() {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"title": "Tagvorto - Log in",
			"error": "Invalid email or password.",
		})
	}
	if err := c.ShouldBind(&form); err != nil {
		invalid()
		return
	}

	user, err := app.Users.FindUserByEmail(c.Request.Context(), form.Email)
	if errors.Is(err, ErrUserNotFound) {
		invalid()
		return
	}
	if err != nil {
		logWarn("Failed to look up user: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"message": MsgGenericFailure})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil {
		invalid()
		return
	}

	if err := app.beginSession(c, user.ID); err != nil {
		logWarn("Failed to create session: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"message": MsgGenericFailure})
		return
	}
	c.Redirect(http.StatusSeeOther, RouteHome)
}

// logoutHandler ends the session and returns to the login page.
func (app *App) logoutHandler(c *gin.Context) {
	app.endSession(c)
	c.Redirect(http.StatusSeeOther, RouteLogin)
}

// sweepHandler force-completes stale games from previous days. Guarded by a
// bearer token; it exists as recovery for lost scheduler jobs.
func (app *App) sweepHandler(c *gin.Context) {
	if app.SweepToken == "" || c.GetHeader("Authorization") != app.SweepToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	swept, err := app.Games.SweepStale(c.Request.Context())
	if err != nil {
		logWarn("Stale sweep failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"swept": swept})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	ctx := c.Request.Context()
	uptime := time.Since(app.StartTime)
	database := "unhealthy"
	if app.dbHealthy(ctx) {
		database = "healthy"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"env":          map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"secret_words": app.Dict.SecretCount(),
		"guessable":    app.Dict.GuessableCount(),
		"database":     database,
		"redis":        app.redisHealthy(ctx),
		"uptime":       formatUptime(uptime),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}
