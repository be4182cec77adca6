package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// beginSession creates a persisted session for the user and sets the cookie.
func (app *App) beginSession(c *gin.Context, userID string) error {
	ctx := c.Request.Context()
	sessionID, err := app.Users.CreateSession(ctx, userID, timeNow().Add(app.CookieMaxAge))
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", app.IsProduction, true)
	logInfo("Created session for user %s", userID)
	return nil
}

// endSession deletes the persisted session and expires the cookie.
func (app *App) endSession(c *gin.Context) {
	if sessionID, err := c.Cookie(SessionCookieName); err == nil {
		if err := app.Users.DeleteSession(c.Request.Context(), sessionID); err != nil {
			logWarn("Failed to delete session: %v", err)
		}
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", app.IsProduction, true)
}

// currentUser resolves the session cookie to a user, or ErrSessionNotFound.
func (app *App) currentUser(c *gin.Context) (*User, error) {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || sessionID == "" {
		return nil, ErrSessionNotFound
	}
	ctx := c.Request.Context()
	userID, err := app.Users.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return app.Users.FindUserByID(ctx, userID)
}

// requireUser redirects anonymous requests to the login page and stashes the
// resolved user on the gin context for handlers downstream.
func (app *App) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := app.currentUser(c)
		if err != nil {
			c.Redirect(http.StatusSeeOther, RouteLogin)
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// userFrom returns the user stashed by requireUser.
func userFrom(c *gin.Context) *User {
	u, _ := c.MustGet(userKey).(*User)
	return u
}
