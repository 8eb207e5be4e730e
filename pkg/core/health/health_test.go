package health

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewChecker(t *testing.T) {
	checker := NewChecker("lexer", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "tokenized"}
	})

	if checker.Name() != "lexer" {
		t.Errorf("Name() = %v, want lexer", checker.Name())
	}
	result := checker.Check(context.Background())
	if result.Status != StatusHealthy || result.Message != "tokenized" {
		t.Errorf("Check() = %+v", result)
	}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]Status
		want     Status
	}{
		{"empty", map[string]Status{}, StatusHealthy},
		{"all healthy", map[string]Status{"a": StatusHealthy, "b": StatusHealthy}, StatusHealthy},
		{"one degraded", map[string]Status{"a": StatusHealthy, "b": StatusDegraded}, StatusDegraded},
		{"missing status", map[string]Status{"a": ""}, StatusDegraded},
		{"unhealthy wins", map[string]Status{"a": StatusDegraded, "b": StatusUnhealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("mide", "0.3.0")
			for name, status := range tt.statuses {
				status := status
				registry.RegisterFunc(name, func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				})
			}

			report := registry.Check(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if report.Healthy() != (tt.want == StatusHealthy) {
				t.Errorf("Healthy() = %v", report.Healthy())
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Errorf("len(Checks) = %d, want %d", len(report.Checks), len(tt.statuses))
			}
		})
	}
}

func TestRegistry_CheckOrderAndNames(t *testing.T) {
	registry := NewRegistry("mide", "0.3.0")
	for _, name := range []string{"store", "analyzer", "parser"} {
		registry.RegisterFunc(name, func(ctx context.Context) CheckResult {
			return CheckResult{Status: StatusHealthy}
		})
	}

	report := registry.Check(context.Background())
	var names []string
	for _, c := range report.Checks {
		names = append(names, c.Name)
		if c.Timestamp.IsZero() {
			t.Errorf("%s: Timestamp not set", c.Name)
		}
	}
	if strings.Join(names, ",") != "analyzer,parser,store" {
		t.Errorf("check order = %v", names)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry("mide", "0.3.0")
	registry.Register(AlwaysHealthy("a"))
	registry.RegisterFunc("b", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusUnhealthy}
	})
	registry.Unregister("b")

	report := registry.Check(context.Background())
	if report.Status != StatusHealthy || len(report.Checks) != 1 {
		t.Errorf("report = %s", report)
	}
}

func TestRegistry_ChecksRunConcurrently(t *testing.T) {
	registry := NewRegistry("mide", "0.3.0")
	var running int32
	var peak int32
	for _, name := range []string{"a", "b", "c"} {
		registry.RegisterFunc(name, func(ctx context.Context) CheckResult {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return CheckResult{Status: StatusHealthy}
		})
	}

	registry.Check(context.Background())
	if atomic.LoadInt32(&peak) < 2 {
		t.Errorf("peak concurrency = %d, want >= 2", peak)
	}
}

func TestRegistry_CheckWithTimeout(t *testing.T) {
	registry := NewRegistry("mide", "0.3.0")
	registry.RegisterFunc("slow", func(ctx context.Context) CheckResult {
		<-ctx.Done()
		return CheckResult{Status: StatusUnhealthy, Message: ctx.Err().Error()}
	})

	report := registry.CheckWithTimeout(10 * time.Millisecond)
	if report.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", report.Status)
	}
}

func TestFuncCheck(t *testing.T) {
	ok := FuncCheck("ok", func(ctx context.Context) error { return nil })
	if r := ok.Check(context.Background()); r.Status != StatusHealthy || r.Name != "ok" {
		t.Errorf("healthy probe = %+v", r)
	}

	failing := FuncCheck("db", func(ctx context.Context) error { return errors.New("database locked") })
	r := failing.Check(context.Background())
	if r.Status != StatusUnhealthy || r.Message != "database locked" {
		t.Errorf("failing probe = %+v", r)
	}
}

func TestReport_String(t *testing.T) {
	report := &Report{Service: "mide", Status: StatusHealthy, Uptime: 90 * time.Second}
	if got := report.String(); got != "Service: mide, Status: healthy, Uptime: 1m30s, Checks: 0" {
		t.Errorf("String() = %q", got)
	}
}
