// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instruments for the authentication core.

A nil [*Auth] is valid and records nothing, so services can be built in
tests without a registry.
*/
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bizdesk"

// Auth holds the instruments for login, token verification and refresh.
type Auth struct {
	LoginAttempts    *prometheus.CounterVec
	Verifications    *prometheus.CounterVec
	Refreshes        *prometheus.CounterVec
	Logouts          prometheus.Counter
	RecorderFailures *prometheus.CounterVec
	SweptRows        *prometheus.CounterVec
}

// NewAuth creates the auth instruments and registers them with registry.
func NewAuth(registry prometheus.Registerer) *Auth {
	factory := promauto.With(registry)

	return &Auth{
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_login_attempts_total",
				Help:      "Login attempts by outcome and failure reason.",
			},
			[]string{"outcome", "reason"},
		),
		Verifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_token_verifications_total",
				Help:      "Access token verifications by result.",
			},
			[]string{"result"},
		),
		Refreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_token_refreshes_total",
				Help:      "Refresh exchanges by result.",
			},
			[]string{"result"},
		),
		Logouts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_logouts_total",
				Help:      "Sessions revoked through logout.",
			},
		),
		RecorderFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_recorder_failures_total",
				Help:      "Audit and session record writes that failed.",
			},
			[]string{"operation"},
		),
		SweptRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_expired_rows_total",
				Help:      "Rows flagged expired by the background sweeper.",
			},
			[]string{"table"},
		),
	}
}

// ObserveLogin counts a login attempt. reason is empty on success.
func (m *Auth) ObserveLogin(outcome, reason string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome, reason).Inc()
}

// ObserveVerification counts a token check; result is "ok" or a failure code.
func (m *Auth) ObserveVerification(result string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(result).Inc()
}

// ObserveRefresh counts a refresh exchange.
func (m *Auth) ObserveRefresh(result string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(result).Inc()
}

// ObserveLogouts adds count revoked sessions.
func (m *Auth) ObserveLogouts(count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.Logouts.Add(float64(count))
}

// ObserveRecorderFailure counts a failed audit or session write.
func (m *Auth) ObserveRecorderFailure(operation string) {
	if m == nil {
		return
	}
	m.RecorderFailures.WithLabelValues(operation).Inc()
}

// ObserveSwept adds the number of rows a sweep flagged in table.
func (m *Auth) ObserveSwept(table string, rows int64) {
	if m == nil || rows <= 0 {
		return
	}
	m.SweptRows.WithLabelValues(table).Add(float64(rows))
}

// # Connection Pools

// PoolStatsFunc reports the total, idle and in-use connections of a pool.
type PoolStatsFunc func() (total, idle, inUse int32)

// RegisterPool exports bizdesk_pool_connections for the named pool, one
// series per state. Values are read from stats at scrape time.
func RegisterPool(registry prometheus.Registerer, pool string, stats PoolStatsFunc) {
	factory := promauto.With(registry)

	states := map[string]func() float64{
		"total":  func() float64 { total, _, _ := stats(); return float64(total) },
		"idle":   func() float64 { _, idle, _ := stats(); return float64(idle) },
		"in_use": func() float64 { _, _, inUse := stats(); return float64(inUse) },
	}

	for state, read := range states {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "pool_connections",
			Help:        "Connections held by a client pool, by state.",
			ConstLabels: prometheus.Labels{"pool": pool, "state": state},
		}, read)
	}
}
