package main

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Scheduler is the contract the lifecycle manager produces to: one delayed
// "complete this game" job per created game. Cancel is an optimization; the
// sweep handler tolerates firing on terminal or missing games.
type Scheduler interface {
	Schedule(ctx context.Context, gameID string, runAt time.Time) error
	Cancel(ctx context.Context, gameID string) error
}

// RedisScheduler stores delayed jobs in a sorted set scored by the run-at
// time in epoch milliseconds.
type RedisScheduler struct {
	rdb *redis.Client
	key string
}

// NewRedisScheduler returns a scheduler backed by the given Redis client.
func NewRedisScheduler(rdb *redis.Client) *RedisScheduler {
	return &RedisScheduler{rdb: rdb, key: "tagvorto:complete_game"}
}

func (s *RedisScheduler) Schedule(ctx context.Context, gameID string, runAt time.Time) error {
	return s.rdb.ZAdd(ctx, s.key, redis.Z{
		Score:  float64(runAt.UnixMilli()),
		Member: gameID,
	}).Err()
}

func (s *RedisScheduler) Cancel(ctx context.Context, gameID string) error {
	return s.rdb.ZRem(ctx, s.key, gameID).Err()
}

// dueJobs pops every job whose run-at time has passed. ZRem before acting
// keeps delivery at-most-once per worker; a job lost between ZRem and the
// sweep is recovered by the stale-game sweep endpoint.
func (s *RedisScheduler) dueJobs(ctx context.Context, now time.Time) ([]string, error) {
	members, err := s.rdb.ZRangeByScore(ctx, s.key, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	claimed := make([]string, 0, len(members))
	for _, m := range members {
		removed, err := s.rdb.ZRem(ctx, s.key, m).Result()
		if err != nil {
			return claimed, err
		}
		if removed > 0 {
			claimed = append(claimed, m)
		}
	}
	return claimed, nil
}

// SweepWorker polls the scheduler for due jobs and runs the idempotent
// completion sweep for each.
type SweepWorker struct {
	sched    *RedisScheduler
	games    *GameService
	interval time.Duration
}

// NewSweepWorker returns a worker polling at the given interval.
func NewSweepWorker(sched *RedisScheduler, games *GameService, interval time.Duration) *SweepWorker {
	return &SweepWorker{sched: sched, games: games, interval: interval}
}

// Run blocks until ctx is cancelled.
func (w *SweepWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logInfo("Sweep worker started (interval %v)", w.interval)
	for {
		select {
		case <-ctx.Done():
			logInfo("Sweep worker stopped")
			return
		case now := <-ticker.C:
			w.tick(ctx, now)
		}
	}
}

func (w *SweepWorker) tick(ctx context.Context, now time.Time) {
	ids, err := w.sched.dueJobs(ctx, now)
	if err != nil {
		logWarn("Sweep worker: failed to fetch due jobs: %v", err)
	}
	for _, id := range ids {
		if err := w.games.MarkCompleteIfUnfinished(ctx, id); err != nil {
			logWarn("Sweep worker: game %s: %v", id, err)
		}
	}
}

// noopScheduler is used when no Redis connection is configured; stale games
// are then only completed through the sweep endpoint.
type noopScheduler struct{}

func (noopScheduler) Schedule(context.Context, string, time.Time) error { return nil }
func (noopScheduler) Cancel(context.Context, string) error              { return nil }
