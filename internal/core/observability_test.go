package core

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestExpvarMetricsRecorderAggregates(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if rec.Name() == "" {
		t.Fatalf("generated name empty")
	}
	ctx := context.Background()

	rec.Observe(ctx, "get_house", true, 30*time.Millisecond)
	rec.Observe(ctx, "get_house", true, 20*time.Millisecond)
	rec.Observe(ctx, "get_house", false, 10*time.Millisecond)
	rec.Observe(ctx, "", true, time.Second) // ignored

	snap := rec.Snapshot()
	if got := snap.DurationsMS["get_house"]; got != 60 {
		t.Fatalf("durations = %v, want 60ms total", got)
	}
	if got := snap.Results["get_house"]["success"]; got != 2 {
		t.Fatalf("success count = %d", got)
	}
	if got := snap.Results["get_house"]["error"]; got != 1 {
		t.Fatalf("error count = %d", got)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("results = %v, want empty operation ignored", snap.Results)
	}
}

func TestServiceRecordsOperationMetrics(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	svc := newTestService(t, WithMetrics(rec))
	ctx := context.Background()

	mustCreateHouse(t, svc, "Observed")
	if _, err := svc.GetHouse(ctx, "missing"); err == nil {
		t.Fatalf("expected lookup failure")
	}

	snap := rec.Snapshot()
	if snap.Results["upsert_house"]["success"] != 1 {
		t.Fatalf("upsert not recorded: %v", snap.Results)
	}
	if snap.Results["get_house"]["error"] != 1 {
		t.Fatalf("failed lookup not recorded: %v", snap.Results)
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	ctx := context.Background()

	rec.Observe(ctx, "toggle_favorite", true, 5*time.Millisecond)
	rec.Observe(ctx, "toggle_favorite", false, 5*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	if !found["homagio_store_operation_duration_seconds"] {
		t.Fatalf("duration histogram not registered: %v", found)
	}
	if !found["homagio_store_operation_results_total"] {
		t.Fatalf("result counter not registered: %v", found)
	}

	// Double registration on the same registry must fail.
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("duplicate registration accepted")
	}
}
