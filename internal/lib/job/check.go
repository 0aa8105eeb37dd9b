package job

import (
	"context"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Check probes a single dependency.
//
// Required checks decide the overall status; optional ones are only
// reported.
type Check struct {
	Name     string
	Required bool
	Fn       func(ctx context.Context) error
}

// Result is the outcome of one Check.
type Result struct {
	Name         string
	Required     bool
	Err          error
	ResponseTime time.Duration
}

// Healthy reports whether the check passed.
func (r Result) Healthy() bool {
	return r.Err == nil
}

// Status is "healthy" or "unhealthy".
func (r Result) Status() string {
	if r.Healthy() {
		return StatusHealthy
	}
	return StatusUnhealthy
}

// RunChecks runs checks sequentially, each bounded by timeout.
func RunChecks(ctx context.Context, checks []Check, timeout time.Duration) []Result {
	results := make([]Result, 0, len(checks))

	for _, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		err := check.Fn(checkCtx)
		cancel()

		results = append(results, Result{
			Name:         check.Name,
			Required:     check.Required,
			Err:          err,
			ResponseTime: time.Since(start),
		})
	}

	return results
}

// AllHealthy reports whether every required check passed.
func AllHealthy(results []Result) bool {
	for _, r := range results {
		if r.Required && !r.Healthy() {
			return false
		}
	}
	return true
}
