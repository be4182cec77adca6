package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	logInfo("Starting Tagvorto in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	dict, err := LoadDictionary(getEnv("WORD_BANK_PATH", "data/word-bank.json"))
	if err != nil {
		logFatal("Failed to load word bank: %v", err)
	}
	logInfo("Loaded %d secret words, %d guessable words", dict.SecretCount(), dict.GuessableCount())

	store, err := OpenStore(getEnv("DATABASE_PATH", "data/tagvorto.db"))
	if err != nil {
		logFatal("Failed to open database: %v", err)
	}
	defer store.Close()

	var rdb *redis.Client
	var sched Scheduler = noopScheduler{}
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		logWarn("REDIS_URL not set, completion sweeps run only via %s", RouteSweep)
	} else {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			logFatal("Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		sched = NewRedisScheduler(rdb)
	}

	games := NewGameService(store, dict, sched, nil)

	app := &App{
		Games:          games,
		Users:          store,
		Dict:           dict,
		DB:             store,
		RDB:            rdb,
		IsProduction:   isProduction,
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 7*24*time.Hour),
		StaticCacheAge: getEnvDuration("STATIC_CACHE_AGE", 5*time.Minute),
		SweepToken:     os.Getenv("SWEEP_TOKEN"),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		StartTime:      time.Now(),
		LimiterMap:     make(map[string]*rate.Limiter),
	}
	if app.SweepToken == "" {
		logWarn("SWEEP_TOKEN not set, %s is disabled", RouteSweep)
	}

	registerMetrics(prometheus.DefaultRegisterer)

	router := app.setupRouter()

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if rs, ok := sched.(*RedisScheduler); ok {
		worker := NewSweepWorker(rs, games, getEnvDuration("SWEEP_INTERVAL", time.Minute))
		go worker.Run(workerCtx)
	}

	startServer(router)
}

// setupRouter builds the gin engine with middleware and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
		ginGzip.WithExcludedPaths([]string{RouteMetrics})))
	router.Use(requestIDMiddleware())
	router.Use(app.cacheHeadersMiddleware())
	router.Use(metricsMiddleware())

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.LoadHTMLGlob("templates/*.html")

	// Prefer pre-minified assets when a dist build is present.
	staticDir := "./static"
	if app.IsProduction && dirExists("dist/static") {
		staticDir = "dist/static"
	}
	router.Static("/static", staticDir)

	router.GET(RouteHome, app.requireUser(), app.homeHandler)
	router.POST(RouteGuess, app.requireUser(), app.rateLimitMiddleware(), app.guessHandler)
	router.GET(RouteHistory, app.requireUser(), app.historyHandler)
	router.GET(RouteHistory+"/:id", app.requireUser(), app.historyGameHandler)

	router.GET(RouteJoin, app.joinPageHandler)
	router.POST(RouteJoin, app.rateLimitMiddleware(), app.joinHandler)
	router.GET(RouteLogin, app.loginPageHandler)
	router.POST(RouteLogin, app.rateLimitMiddleware(), app.loginHandler)
	router.POST(RouteLogout, app.logoutHandler)

	router.POST(RouteSweep, app.sweepHandler)
	router.GET(RouteHealth, app.healthzHandler)
	router.GET(RouteMetrics, gin.WrapH(promhttp.Handler()))

	return router
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
