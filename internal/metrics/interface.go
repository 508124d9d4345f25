package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncChallengesIssued()
	IncChallengeResponses(outcome string)
	IncChallengesExpired(n int)
	IncMatchesCompleted()
	IncPersistenceFailures(operation string)
	IncAuthFailures(purpose string)
	ObserveSweepDuration(duration float64)
	IncNotifSent()
	IncNotifFailed()
	SetStartupTime(duration float64)
}
