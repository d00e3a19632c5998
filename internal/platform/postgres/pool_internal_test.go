// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDSN = "postgres://bizdesk:bizdesk@db:5432/bizdesk"

func TestParseConfig_AppliesSettings(t *testing.T) {
	poolConfig, err := parseConfig(testDSN, Settings{MaxConns: 12, MinConns: 3, StatementTimeout: 1500 * time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, int32(12), poolConfig.MaxConns)
	assert.Equal(t, int32(3), poolConfig.MinConns)
	assert.Equal(t, "1500", poolConfig.ConnConfig.RuntimeParams["statement_timeout"])
	assert.Equal(t, connectTimeout, poolConfig.ConnConfig.ConnectTimeout)
	assert.Equal(t, "db", poolConfig.ConnConfig.Host)
}

func TestParseConfig_ZeroSettingsKeepDefaults(t *testing.T) {
	defaults, err := parseConfig(testDSN, Settings{})
	require.NoError(t, err)

	assert.Positive(t, defaults.MaxConns)
	assert.NotContains(t, defaults.ConnConfig.RuntimeParams, "statement_timeout")
}

func TestParseConfig_InvalidDSN(t *testing.T) {
	_, err := parseConfig("postgres://%zz", Settings{})
	assert.ErrorContains(t, err, "postgres: invalid DSN")
}
