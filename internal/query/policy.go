package query

import (
	"time"

	"github.com/zatekoja/hms-frontdesk/pkg/retry"
)

// Policy decides how long an entry stays fresh and how often a read retries
type Policy struct {
	DefaultStale   time.Duration
	DashboardStale time.Duration
	Retries        int
	RetryDelay     time.Duration

	// GCTime is how long an entry is kept after it went stale
	GCTime time.Duration
}

// DefaultPolicy is one minute freshness, five for dashboard keys, one retry
func DefaultPolicy() Policy {
	return Policy{
		DefaultStale:   time.Minute,
		DashboardStale: 5 * time.Minute,
		Retries:        1,
		RetryDelay:     time.Second,
		GCTime:         5 * time.Minute,
	}
}

var dashboardKeys = map[string]struct{}{
	KeyPatientsToday.String():      {},
	KeyAppointmentsToday.String():  {},
	KeyTreatmentsToday.String():    {},
	KeyPaymentsAll.String():        {},
	KeyPaymentsToday.String():      {},
	KeyPaymentsTotal.String():      {},
	KeyPaymentsTodayTotal.String(): {},
}

// StaleTime returns the freshness window of key
func (p Policy) StaleTime(key Key) time.Duration {
	if _, ok := dashboardKeys[key.String()]; ok {
		return p.DashboardStale
	}
	return p.DefaultStale
}

// Retry returns the retry configuration of key. The profile read never
// retries so an expired token is reported at once.
func (p Policy) Retry(key Key) retry.Config {
	if key.Equal(KeyProfile) {
		return retry.NoRetry()
	}
	cfg := retry.QueryConfig(p.Retries)
	if p.RetryDelay > 0 {
		cfg.InitialDelay = p.RetryDelay
	}
	return cfg
}
