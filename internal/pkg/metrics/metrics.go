// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shift_scheduler"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	TableAPICallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "table_api_calls_total",
		Help:      "Calls to the remote table API, by table, method and outcome.",
	}, []string{"table", "method", "outcome"})

	TableAPICallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "table_api_call_duration_seconds",
		Help:      "Latency of table API calls including retries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"table", "method"})

	TableAPIRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "table_api_retries_total",
		Help:      "Retried table API attempts after transport failures.",
	}, []string{"table", "method"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "data_cache_lookups_total",
		Help:      "Data cache reads, by result (hit, miss, shared).",
	}, []string{"result"})

	CacheRefreshFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "data_cache_refresh_failures_total",
		Help:      "Cache refreshes aborted because one of the fetches failed.",
	})
)
