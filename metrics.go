package main

import "github.com/prometheus/client_golang/prometheus"

var (
	gamesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tagvorto_games_created_total",
		Help: "Total number of daily games created.",
	})

	gamesWonTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tagvorto_games_won_total",
		Help: "Total number of games won through play.",
	})

	gamesSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tagvorto_games_swept_total",
		Help: "Games forced to COMPLETE by the end-of-day sweep.",
	})

	guessesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tagvorto_guesses_total",
		Help: "Accepted guesses, labelled by the resulting game status.",
	}, []string{"status"})

	guessRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tagvorto_guess_rejections_total",
		Help: "Rejected guess submissions, labelled by reason.",
	}, []string{"reason"})

	requestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tagvorto_request_duration_seconds",
		Help:    "End-to-end handler duration.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route", "method"})
)

func registerMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		gamesCreatedTotal,
		gamesWonTotal,
		gamesSweptTotal,
		guessesTotal,
		guessRejectionsTotal,
		requestDurationSeconds,
	)
}
