// Package ratelimit tracks per-endpoint request budgets and paces callers
// against the Twitter API rate windows. This is cooperative self-throttling
// based on local accounting, not an enforcement of the remote limits.
package ratelimit

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Endpoint keys tracked by the governor
const (
	EndpointSearch = "search"
	EndpointPost   = "post"
)

const (
	searchCeiling = 450
	postCeiling   = 50

	// Window is the length of one Twitter API rate window.
	Window = 15 * time.Minute

	// waitBuffer is added on top of the computed wait so the remote window
	// has definitely rolled over before the next request.
	waitBuffer = time.Second
)

type budget struct {
	remaining int
	ceiling   int
	resetAt   time.Time
}

// Governor tracks a budget per endpoint and blocks callers when a budget is
// exhausted until its window resets. The clock and sleep functions are
// injectable so tests can run against a fake clock.
type Governor struct {
	mu      sync.Mutex
	budgets map[string]*budget

	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a Governor with fresh budgets for the search and post
// endpoints, using the real clock.
func New() *Governor {
	return NewWithClock(time.Now, time.Sleep)
}

// NewWithClock creates a Governor with injected clock and sleep functions
func NewWithClock(now func() time.Time, sleep func(time.Duration)) *Governor {
	return &Governor{
		budgets: map[string]*budget{
			EndpointSearch: {remaining: searchCeiling, ceiling: searchCeiling, resetAt: now().Add(Window)},
			EndpointPost:   {remaining: postCeiling, ceiling: postCeiling, resetAt: now().Add(Window)},
		},
		now:   now,
		sleep: sleep,
	}
}

// Acquire consumes one request from the endpoint's budget. When the budget
// is exhausted it blocks until the window resets, then restores the budget
// to its ceiling. The remaining count is decremented by exactly one before
// returning.
func (g *Governor) Acquire(endpoint string) {
	g.mu.Lock()
	b, ok := g.budgets[endpoint]
	if !ok {
		g.mu.Unlock()
		logrus.Warnf("Rate governor has no budget for endpoint %q", endpoint)
		return
	}

	if b.remaining <= 1 {
		wait := b.resetAt.Sub(g.now())
		if wait > 0 {
			g.mu.Unlock()
			logrus.Infof("Rate limit reached for %s, waiting %v", endpoint, wait)
			g.sleep(wait + waitBuffer)
			g.mu.Lock()
		}
		b.remaining = b.ceiling
		b.resetAt = g.now().Add(Window)
	}

	b.remaining--
	g.mu.Unlock()
}

// UpdateFromResponse overwrites an endpoint's budget with authoritative
// values from the API's rate-limit response headers.
func (g *Governor) UpdateFromResponse(endpoint string, remaining int, resetAt time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, ok := g.budgets[endpoint]
	if !ok {
		return
	}

	b.remaining = remaining
	b.resetAt = resetAt
	logrus.Debugf("Rate budget for %s updated from response: %d remaining, resets at %s", endpoint, remaining, resetAt.Format(time.RFC3339))
}

// Remaining reports the current budget for an endpoint
func (g *Governor) Remaining(endpoint string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if b, ok := g.budgets[endpoint]; ok {
		return b.remaining
	}
	return 0
}
