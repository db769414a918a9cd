// Package prom implements the observability hooks with Prometheus metrics.
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	observability.SetInteractionHooks(m)
//	observability.SetStoreHooks(m)
//	observability.SetHTTPHooks(m)
//	http.Handle("/metrics", promhttp.Handler())
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/swimlane/pkg/observability"
)

const namespace = "swimlane"

// Metrics records interaction, store and HTTP events.
type Metrics struct {
	gestures        *prometheus.CounterVec
	gestureDuration *prometheus.HistogramVec
	activeGestures  prometheus.Gauge
	nodeMoves       *prometheus.CounterVec
	edgesCreated    prometheus.Counter
	rejections      *prometheus.CounterVec
	deleted         prometheus.Counter
	modeChanges     *prometheus.CounterVec

	storeLoads    *prometheus.CounterVec
	storeSaves    *prometheus.CounterVec
	storeDeletes  *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	storeBytes    *prometheus.HistogramVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gestures_total",
			Help:      "Finished gestures by kind and outcome.",
		}, []string{"kind", "outcome"}),
		gestureDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gesture_duration_seconds",
			Help:      "Time from pointerdown to gesture end.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		activeGestures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_gestures",
			Help:      "Gestures currently in progress.",
		}),
		nodeMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_moves_total",
			Help:      "Committed node drags, by whether the node changed lane.",
		}, []string{"lane_changed"}),
		edgesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_created_total",
			Help:      "Edges created by connection gestures.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_rejected_total",
			Help:      "Connection gestures that ended without an edge.",
		}, []string{"reason"}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "elements_deleted_total",
			Help:      "Nodes and edges removed by delete actions.",
		}),
		modeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_changes_total",
			Help:      "Mode switches by target mode.",
		}, []string{"mode"}),

		storeLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "loads_total",
			Help:      "Document reads by backend and result.",
		}, []string{"backend", "result"}),
		storeSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "saves_total",
			Help:      "Document writes by backend and result.",
		}, []string{"backend", "result"}),
		storeDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "deletes_total",
			Help:      "Document removals by backend.",
		}, []string{"backend"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "op"}),
		storeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "document_bytes",
			Help:      "Encoded size of saved documents.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"backend"}),

		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.gestures, m.gestureDuration, m.activeGestures, m.nodeMoves, m.edgesCreated,
		m.rejections, m.deleted, m.modeChanges,
		m.storeLoads, m.storeSaves, m.storeDeletes, m.storeDuration, m.storeBytes,
		m.requests, m.requestDuration,
	)
	return m
}

// Install registers m as the interaction, store and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetInteractionHooks(m)
	observability.SetStoreHooks(m)
	observability.SetHTTPHooks(m)
}

// =============================================================================
// Interaction
// =============================================================================

func (m *Metrics) OnGestureStart(string) {
	m.activeGestures.Inc()
}

func (m *Metrics) OnGestureEnd(kind string, committed bool, d time.Duration) {
	m.activeGestures.Dec()
	outcome := "cancelled"
	if committed {
		outcome = "committed"
	}
	m.gestures.WithLabelValues(kind, outcome).Inc()
	m.gestureDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) OnNodeMoved(_ string, laneChanged bool) {
	m.nodeMoves.WithLabelValues(strconv.FormatBool(laneChanged)).Inc()
}

func (m *Metrics) OnEdgeCreated(string, string) {
	m.edgesCreated.Inc()
}

func (m *Metrics) OnConnectionRejected(reason string) {
	if reason == "" {
		reason = "unsnapped"
	}
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) OnElementsDeleted(n int) {
	m.deleted.Add(float64(n))
}

func (m *Metrics) OnModeChange(mode string) {
	m.modeChanges.WithLabelValues(mode).Inc()
}

// =============================================================================
// Store
// =============================================================================

func (m *Metrics) OnLoad(_ context.Context, backend string, found bool, d time.Duration) {
	result := "hit"
	if !found {
		result = "miss"
	}
	m.storeLoads.WithLabelValues(backend, result).Inc()
	m.storeDuration.WithLabelValues(backend, "load").Observe(d.Seconds())
}

func (m *Metrics) OnSave(_ context.Context, backend string, size int, d time.Duration, err error) {
	if err != nil {
		m.storeSaves.WithLabelValues(backend, "error").Inc()
		return
	}
	m.storeSaves.WithLabelValues(backend, "ok").Inc()
	m.storeDuration.WithLabelValues(backend, "save").Observe(d.Seconds())
	m.storeBytes.WithLabelValues(backend).Observe(float64(size))
}

func (m *Metrics) OnDelete(_ context.Context, backend string) {
	m.storeDeletes.WithLabelValues(backend).Inc()
}

// =============================================================================
// HTTP
// =============================================================================

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.InteractionHooks = (*Metrics)(nil)
	_ observability.StoreHooks       = (*Metrics)(nil)
	_ observability.HTTPHooks        = (*Metrics)(nil)
)
