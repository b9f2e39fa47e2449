// Copyright (c) 2026 Jeremy Hahn
// Copyright (c) 2026 Automate The Things, LLC
//
// This file is part of go-eid.
//
// go-eid is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package metrics provides Prometheus instrumentation for authentication
// operations: attempt counters by algorithm and outcome, PIN failure
// counters by status, and attempt duration histograms. Labels carry only
// protocol-level identifiers, never request data.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all go-eid metrics
	Namespace = "webeid"

	// Label names
	LabelAlgorithm = "algorithm"
	LabelStatus    = "status"
	LabelPinStatus = "pin_status"

	// Status values
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusAbandoned = "abandoned"
)

var (
	// AuthenticationsTotal tracks authentication attempts by signature
	// algorithm and outcome.
	AuthenticationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "authentications_total",
			Help:      "Total number of authentication attempts by algorithm and status",
		},
		[]string{LabelAlgorithm, LabelStatus},
	)

	// AuthenticationDuration tracks attempt duration in seconds. Buckets
	// are wide because an attempt includes interactive PIN entry.
	AuthenticationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "authentication_duration_seconds",
			Help:      "Duration of authentication attempts in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{LabelAlgorithm},
	)

	// PinFailuresTotal tracks PIN verification failures by status.
	PinFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "pin_failures_total",
			Help:      "Total number of PIN verification failures by status",
		},
		[]string{LabelPinStatus},
	)
)

// RecordAuthentication increments the attempt counter and observes the
// attempt duration.
func RecordAuthentication(algorithm, status string, duration time.Duration) {
	AuthenticationsTotal.WithLabelValues(algorithm, status).Inc()
	AuthenticationDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// RecordPinFailure increments the PIN failure counter.
func RecordPinFailure(pinStatus string) {
	PinFailuresTotal.WithLabelValues(pinStatus).Inc()
}
