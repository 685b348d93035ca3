package refresh

import (
	"sync"
	"time"
)

// Report is a point-in-time copy of the poll bookkeeping.
type Report struct {
	Endpoint            string    `json:"endpoint,omitempty"`
	Period              string    `json:"period"`
	Successes           int64     `json:"successes"`
	Failures            int64     `json:"failures"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastPoll            time.Time `json:"last_poll"`
	LastSuccess         time.Time `json:"last_success"`
	LastError           string    `json:"last_error,omitempty"`
	LatencyMs           int64     `json:"latency_ms"`
	Version             int       `json:"version"`
}

// Status tracks how polling is going. It never influences the schedule.
type Status struct {
	mu sync.Mutex
	r  Report
}

func (s *Status) Get() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r
}

func (s *Status) recordSuccess(at time.Time, latency time.Duration, version int) (recovered bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recovered = s.r.ConsecutiveFailures > 0
	s.r.Successes++
	s.r.ConsecutiveFailures = 0
	s.r.LastPoll = at
	s.r.LastSuccess = at
	s.r.LastError = ""
	s.r.LatencyMs = latency.Milliseconds()
	s.r.Version = version
	return recovered
}

// recordFailure reports whether the error text differs from the previous
// poll's, so callers can log once per distinct problem.
func (s *Status) recordFailure(at time.Time, latency time.Duration, err error) (changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := err.Error()
	changed = msg != s.r.LastError
	s.r.Failures++
	s.r.ConsecutiveFailures++
	s.r.LastPoll = at
	s.r.LastError = msg
	s.r.LatencyMs = latency.Milliseconds()
	return changed
}

func (s *Status) describe(endpoint string, period time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Endpoint = endpoint
	s.r.Period = period.String()
}
