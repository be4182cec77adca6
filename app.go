package main

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// timeNow is a test seam for session expiry.
var timeNow = time.Now

// App carries every handler dependency explicitly; there is no package-level
// mutable state.
type App struct {
	Games *GameService
	Users UserStore
	Dict  *Dictionary

	DB  *SQLStore     // nil in handler tests
	RDB *redis.Client // nil when no Redis is configured

	IsProduction   bool
	CookieMaxAge   time.Duration
	StaticCacheAge time.Duration
	SweepToken     string
	RateLimitRPS   int
	RateLimitBurst int
	StartTime      time.Time

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex
}

// dbHealthy reports whether the database answers a ping.
func (app *App) dbHealthy(ctx context.Context) bool {
	if app.DB == nil {
		return false
	}
	return app.DB.Ping(ctx) == nil
}

// redisHealthy reports whether Redis answers a ping. A deployment without
// Redis reports "disabled" rather than unhealthy.
func (app *App) redisHealthy(ctx context.Context) string {
	if app.RDB == nil {
		return "disabled"
	}
	if err := app.RDB.Ping(ctx).Err(); err != nil {
		return "unhealthy"
	}
	return "healthy"
}
