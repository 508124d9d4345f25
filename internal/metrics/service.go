package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ChallengesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_challenges_issued_total",
			Help: "The total number of challenges issued.",
		}),
		ChallengeResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ladder_challenge_responses_total",
			Help: "The total number of challenge responses by outcome.",
		}, []string{"outcome"}),
		ChallengesExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_challenges_expired_total",
			Help: "The total number of challenges declined by the timeout sweep.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_matches_completed_total",
			Help: "The total number of matches recorded.",
		}),
		PersistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ladder_persistence_failures_total",
			Help: "The total number of store writes that failed after a state change.",
		}, []string{"operation"}),
		AuthFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ladder_auth_failures_total",
			Help: "The total number of rejected secrets by purpose.",
		}, []string{"purpose"}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ladder_sweep_duration_seconds",
			Help:    "The duration of the challenge timeout sweep.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_notifications_sent_total",
			Help: "The total number of notifications successfully delivered.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ladder_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ChallengesIssued,
		s.ChallengeResponses,
		s.ChallengesExpired,
		s.MatchesCompleted,
		s.PersistenceFailures,
		s.AuthFailures,
		s.SweepDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncChallengesIssued() {
	s.ChallengesIssued.Inc()
}

func (s *Service) IncChallengeResponses(outcome string) {
	s.ChallengeResponses.WithLabelValues(outcome).Inc()
}

func (s *Service) IncChallengesExpired(n int) {
	s.ChallengesExpired.Add(float64(n))
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) IncPersistenceFailures(operation string) {
	s.PersistenceFailures.WithLabelValues(operation).Inc()
}

func (s *Service) IncAuthFailures(purpose string) {
	s.AuthFailures.WithLabelValues(purpose).Inc()
}

func (s *Service) ObserveSweepDuration(duration float64) {
	s.SweepDuration.Observe(duration)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
