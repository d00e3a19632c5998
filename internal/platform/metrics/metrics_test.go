// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bizdesk/internal/platform/metrics"
)

/*
TestAuth_Counters verifies that each observer increments its instrument.
*/
func TestAuth_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	auth := metrics.NewAuth(registry)

	auth.ObserveLogin("failed", "invalid_password")
	auth.ObserveLogin("failed", "invalid_password")
	auth.ObserveLogin("success", "")
	auth.ObserveVerification("ok")
	auth.ObserveRefresh("TOKEN_REVOKED")
	auth.ObserveLogouts(1)
	auth.ObserveLogouts(2)
	auth.ObserveRecorderFailure("record_login")
	auth.ObserveSwept("access_token", 3)
	auth.ObserveSwept("session", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(auth.LoginAttempts.WithLabelValues("failed", "invalid_password")))
	assert.Equal(t, 1.0, testutil.ToFloat64(auth.LoginAttempts.WithLabelValues("success", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(auth.Verifications.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(auth.Refreshes.WithLabelValues("TOKEN_REVOKED")))
	assert.Equal(t, 3.0, testutil.ToFloat64(auth.Logouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(auth.RecorderFailures.WithLabelValues("record_login")))
	assert.Equal(t, 3.0, testutil.ToFloat64(auth.SweptRows.WithLabelValues("access_token")))
	assert.Equal(t, 1, testutil.CollectAndCount(auth.SweptRows))
}

/*
TestAuth_NilIsNoop verifies that a nil instrument set is safe to use.
*/
func TestAuth_NilIsNoop(t *testing.T) {
	var auth *metrics.Auth

	assert.NotPanics(t, func() {
		auth.ObserveLogin("success", "")
		auth.ObserveVerification("ok")
		auth.ObserveRefresh("ok")
		auth.ObserveLogouts(1)
		auth.ObserveRecorderFailure("record_session")
		auth.ObserveSwept("session", 1)
	})
}

/*
TestRegisterPool verifies one gauge series per connection state.
*/
func TestRegisterPool(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics.RegisterPool(registry, "postgres", func() (int32, int32, int32) { return 5, 3, 2 })

	expected := `
# HELP bizdesk_pool_connections Connections held by a client pool, by state.
# TYPE bizdesk_pool_connections gauge
bizdesk_pool_connections{pool="postgres",state="idle"} 3
bizdesk_pool_connections{pool="postgres",state="in_use"} 2
bizdesk_pool_connections{pool="postgres",state="total"} 5
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "bizdesk_pool_connections"))

	count, err := testutil.GatherAndCount(registry, "bizdesk_pool_connections")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
