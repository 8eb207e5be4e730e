// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     health
// Description: Health check registry used by the analysis server
// Author:      Mike Stoffels
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusUnknown   Status = "unknown"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string                 `json:"name"`
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Duration  time.Duration          `json:"duration"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Checker is an interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

type namedCheck struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewChecker creates a named checker from a function
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return &namedCheck{name: name, fn: fn}
}

func (c *namedCheck) Name() string {
	return c.name
}

func (c *namedCheck) Check(ctx context.Context) CheckResult {
	return c.fn(ctx)
}

// Registry manages multiple health checkers
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	service  string
	version  string
	startAt  time.Time
}

// NewRegistry creates a new health check registry
func NewRegistry(service, version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		service:  service,
		version:  version,
		startAt:  time.Now(),
	}
}

// Register adds a checker, replacing one with the same name
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// RegisterFunc adds a check function to the registry
func (r *Registry) RegisterFunc(name string, fn func(ctx context.Context) CheckResult) {
	r.Register(NewChecker(name, fn))
}

// Unregister removes a checker from the registry
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkers, name)
}

// Check runs all checks concurrently and aggregates the overall status.
// Results are ordered by check name.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	checkers := make([]Checker, 0, len(r.checkers))
	for _, c := range r.checkers {
		checkers = append(checkers, c)
	}
	r.mu.RUnlock()

	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Uptime:    time.Since(r.startAt),
		Timestamp: time.Now(),
		Checks:    make([]CheckResult, len(checkers)),
	}

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			start := time.Now()
			result := c.Check(ctx)
			result.Duration = time.Since(start)
			result.Timestamp = time.Now()
			if result.Name == "" {
				result.Name = c.Name()
			}
			if result.Status == "" {
				result.Status = StatusUnknown
			}
			report.Checks[i] = result
		}(i, checker)
	}
	wg.Wait()

	sort.Slice(report.Checks, func(i, j int) bool {
		return report.Checks[i].Name < report.Checks[j].Name
	})

	report.Status = StatusHealthy
	for _, result := range report.Checks {
		switch result.Status {
		case StatusUnhealthy:
			report.Status = StatusUnhealthy
		case StatusDegraded, StatusUnknown:
			if report.Status != StatusUnhealthy {
				report.Status = StatusDegraded
			}
		}
	}
	return report
}

// CheckWithTimeout runs all health checks with a timeout
func (r *Registry) CheckWithTimeout(timeout time.Duration) *Report {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Check(ctx)
}

// Report represents the overall health report
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// Healthy reports whether the overall status is healthy
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// String returns a string representation of the report
func (r *Report) String() string {
	return fmt.Sprintf("Service: %s, Status: %s, Uptime: %v, Checks: %d",
		r.Service, r.Status, r.Uptime.Round(time.Second), len(r.Checks))
}

// FuncCheck turns an error-returning probe into a checker. A nil error is
// healthy, anything else unhealthy with the error as message.
func FuncCheck(name string, probe func(ctx context.Context) error) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		if err := probe(ctx); err != nil {
			return CheckResult{Name: name, Status: StatusUnhealthy, Message: err.Error()}
		}
		return CheckResult{Name: name, Status: StatusHealthy, Message: "ok"}
	})
}

// AlwaysHealthy returns a checker that always reports healthy
func AlwaysHealthy(name string) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		return CheckResult{
			Name:    name,
			Status:  StatusHealthy,
			Message: "Always healthy",
		}
	})
}
