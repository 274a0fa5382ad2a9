package tfc

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// apiRequests tracks completed API calls by method and status code.
	apiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tfcmcp_api_requests_total",
			Help: "Total Terraform Cloud API requests by method and HTTP status",
		},
		[]string{"method", "status"},
	)

	// apiFailures tracks classified failures by kind.
	apiFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tfcmcp_api_failures_total",
			Help: "Total failed Terraform Cloud API requests by error kind",
		},
		[]string{"kind"},
	)

	// apiDuration tracks request latency by method.
	apiDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tfcmcp_api_request_duration_seconds",
			Help:    "Terraform Cloud API request duration by method",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// redirectsResolved tracks resolved pre-signed URL redirects.
	redirectsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tfcmcp_redirects_resolved_total",
			Help: "Total pre-signed URL redirects resolved by the transport",
		},
	)
)

func observeRequest(method string, resp *Response, err error, elapsed time.Duration) {
	apiDuration.WithLabelValues(method).Observe(elapsed.Seconds())

	if err != nil {
		kind := string(KindNetwork)
		status := 0
		if apiErr, ok := err.(*Error); ok {
			kind = string(apiErr.Kind)
			status = apiErr.StatusCode
		}
		apiFailures.WithLabelValues(kind).Inc()
		apiRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
		return
	}

	apiRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
}

func observeRedirect() {
	redirectsResolved.Inc()
}
