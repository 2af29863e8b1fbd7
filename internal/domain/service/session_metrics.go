package service

import "time"

// Outcome labels shared by session metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// SessionMetrics records session manager activity.
type SessionMetrics interface {
	ObserveLogin(outcome string)
	ObserveRefresh(outcome string)
	ObserveLogout()
	ObserveReuse(policy string)
	ObserveDuration(operation string, elapsed time.Duration)
}
