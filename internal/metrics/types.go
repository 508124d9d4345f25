package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	ChallengesIssued    prometheus.Counter
	ChallengeResponses  *prometheus.CounterVec
	ChallengesExpired   prometheus.Counter
	MatchesCompleted    prometheus.Counter
	PersistenceFailures *prometheus.CounterVec
	AuthFailures        *prometheus.CounterVec
	SweepDuration       prometheus.Histogram
	NotifSent           prometheus.Counter
	NotifFailed         prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
