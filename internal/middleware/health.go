package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthChecker pings one backing service.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a ping method such as the redis cache's or the image store's.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// DatabaseHealthChecker pings the listings database.
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

// Dependency is a named backing service. Only critical ones take the API down:
// without the database nothing can be served, while a broken image store or
// stats cache only disables uploads or slows the dashboard.
type Dependency struct {
	Name     string
	Critical bool
	Checker  HealthChecker
}

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusDown     = "down"
)

type DependencyReport struct {
	Status    string `json:"status"` // up | down
	Critical  bool   `json:"critical"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type HealthReport struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Dependencies map[string]DependencyReport `json:"dependencies"`
}

// Health probes the marketplace's dependencies in parallel.
type Health struct {
	Timeout time.Duration
	deps    []Dependency
}

func NewHealth(deps ...Dependency) *Health {
	return &Health{Timeout: 5 * time.Second, deps: deps}
}

func (h *Health) Add(d Dependency) { h.deps = append(h.deps, d) }

// Report runs the checks; criticalOnly limits it to what readiness needs.
func (h *Health) Report(ctx context.Context, criticalOnly bool) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	deps := make([]Dependency, 0, len(h.deps))
	for _, d := range h.deps {
		if !criticalOnly || d.Critical {
			deps = append(deps, d)
		}
	}
	results := make([]DependencyReport, len(deps))

	var g errgroup.Group
	for i, d := range deps {
		g.Go(func() error {
			start := time.Now()
			err := d.Checker.Check(ctx)
			res := DependencyReport{Status: "up", Critical: d.Critical, LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				res.Status = "down"
				res.Error = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	rep := HealthReport{Status: StatusOK, Timestamp: time.Now().UTC(), Dependencies: make(map[string]DependencyReport, len(deps))}
	for i, d := range deps {
		res := results[i]
		rep.Dependencies[d.Name] = res
		if res.Status == "up" {
			continue
		}
		if d.Critical {
			rep.Status = StatusDown
		} else if rep.Status == StatusOK {
			rep.Status = StatusDegraded
		}
	}
	return rep
}

// Handler serves /health: 200 when ok or degraded, 503 when a critical dependency is down.
func (h *Health) Handler(w http.ResponseWriter, r *http.Request) {
	writeReport(w, h.Report(r.Context(), false))
}

// Ready serves /ready from the critical dependencies only, so a load balancer
// keeps routing while uploads are unavailable.
func (h *Health) Ready(w http.ResponseWriter, r *http.Request) {
	writeReport(w, h.Report(r.Context(), true))
}

func writeReport(w http.ResponseWriter, rep HealthReport) {
	code := http.StatusOK
	if rep.Status == StatusDown {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(rep)
}

// LivenessHandler only proves the process is serving.
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
