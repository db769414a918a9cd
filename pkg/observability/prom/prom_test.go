package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/swimlane/pkg/observability"
)

func TestInteractionMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OnGestureStart("drag")
	if got := testutil.ToFloat64(m.activeGestures); got != 1 {
		t.Errorf("active = %v, want 1", got)
	}
	m.OnGestureEnd("drag", true, 200*time.Millisecond)
	m.OnGestureStart("connection")
	m.OnGestureEnd("connection", false, time.Second)
	m.OnConnectionRejected("")
	m.OnConnectionRejected("INVALID_OPERATION")
	m.OnNodeMoved("a", true)
	m.OnEdgeCreated("a", "b")
	m.OnElementsDeleted(3)
	m.OnModeChange("EDIT")

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"active", m.activeGestures, 0},
		{"drag committed", m.gestures.WithLabelValues("drag", "committed"), 1},
		{"connection cancelled", m.gestures.WithLabelValues("connection", "cancelled"), 1},
		{"unsnapped", m.rejections.WithLabelValues("unsnapped"), 1},
		{"invalid", m.rejections.WithLabelValues("INVALID_OPERATION"), 1},
		{"lane change", m.nodeMoves.WithLabelValues("true"), 1},
		{"edges", m.edgesCreated, 1},
		{"deleted", m.deleted, 3},
		{"mode", m.modeChanges.WithLabelValues("EDIT"), 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStoreAndHTTPMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnLoad(ctx, "redis", true, time.Millisecond)
	m.OnLoad(ctx, "redis", false, time.Millisecond)
	m.OnSave(ctx, "redis", 1024, time.Millisecond, nil)
	m.OnSave(ctx, "redis", 0, time.Millisecond, errors.New("boom"))
	m.OnDelete(ctx, "redis")
	m.OnResponse(ctx, "GET", "/diagrams/{id}", 404, time.Millisecond)

	if got := testutil.ToFloat64(m.storeLoads.WithLabelValues("redis", "miss")); got != 1 {
		t.Errorf("misses = %v", got)
	}
	if got := testutil.ToFloat64(m.storeSaves.WithLabelValues("redis", "error")); got != 1 {
		t.Errorf("save errors = %v", got)
	}
	if got := testutil.ToFloat64(m.storeDeletes.WithLabelValues("redis")); got != 1 {
		t.Errorf("deletes = %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/diagrams/{id}", "404")); got != 1 {
		t.Errorf("requests = %v", got)
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()
	m := New(prometheus.NewRegistry())
	m.Install()

	observability.Interaction().OnEdgeCreated("a", "b")
	if got := testutil.ToFloat64(m.edgesCreated); got != 1 {
		t.Errorf("edges via registry = %v", got)
	}
}
