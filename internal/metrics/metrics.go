package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCCallsTotal tracks chain RPC calls per contract method
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minty_rpc_calls_total",
			Help: "Total number of chain RPC calls",
		},
		[]string{"method"},
	)

	// RPCErrorsTotal tracks chain RPC errors per contract method
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minty_rpc_errors_total",
			Help: "Total number of chain RPC errors",
		},
		[]string{"method"},
	)

	// RPCLatency tracks chain RPC call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minty_rpc_latency_seconds",
			Help:    "Chain RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// IndexerRequestsTotal tracks ownership indexer requests by outcome
	IndexerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minty_indexer_requests_total",
			Help: "Total number of ownership indexer requests",
		},
		[]string{"outcome"},
	)

	// DegradedAttributesTotal tracks per-item attribute reads replaced by
	// a sentinel value during snapshot assembly
	DegradedAttributesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minty_degraded_attributes_total",
			Help: "Total number of snapshot attributes degraded to a sentinel",
		},
		[]string{"attribute"},
	)

	// SnapshotDuration tracks full marketplace snapshot assembly time
	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "minty_snapshot_duration_seconds",
			Help:    "Marketplace snapshot assembly duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SnapshotSize tracks the number of listings in the latest snapshot
	SnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "minty_snapshot_listings",
			Help: "Number of listings in the latest marketplace snapshot",
		},
	)
)
