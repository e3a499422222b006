// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animeapi/internal/platform/constants"
)

func TestPoolConfig(t *testing.T) {
	config, err := poolConfig("postgres://anime:secret@db:5432/anime?sslmode=disable")
	require.NoError(t, err)

	assert.Equal(t, "db", config.ConnConfig.Host)
	assert.Equal(t, "anime", config.ConnConfig.Database)
	assert.Equal(t, int32(maxConns), config.MaxConns)
	assert.Equal(t, int32(minConns), config.MinConns)
	assert.Equal(t, connectTimeout, config.ConnConfig.ConnectTimeout)
	assert.Equal(t, constants.AppName, config.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "30000", config.ConnConfig.RuntimeParams["statement_timeout"])
}

func TestPoolConfig_DSNSessionSettingsWin(t *testing.T) {
	config, err := poolConfig("postgres://anime@db/anime?application_name=migrator&statement_timeout=500")
	require.NoError(t, err)

	assert.Equal(t, "migrator", config.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "500", config.ConnConfig.RuntimeParams["statement_timeout"])
}

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://anime@db:notaport/anime", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "postgres: invalid DSN")
}
