// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5URL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://anime:secret@db:5432/anime", "pgx5://anime:secret@db:5432/anime"},
		{"postgresql://anime@db/anime?sslmode=disable", "pgx5://anime@db/anime?sslmode=disable"},
		{"pgx5://anime@db/anime", "pgx5://anime@db/anime"},
		{"host=db user=anime", "host=db user=anime"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, pgx5URL(tt.in))
		})
	}
}

/*
TestOpenSource_Embedded walks the migrations compiled into the binary and
checks that the stored functions ship with the key column they filter on.
*/
func TestOpenSource_Embedded(t *testing.T) {
	driver, origin, err := openSource("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	assert.Equal(t, sourceEmbedded, origin)

	first, err := driver.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := driver.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)

	_, err = driver.Next(next)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	body, identifier, err := driver.ReadUp(next)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "anime_functions", identifier)

	sql, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(sql), "namekey = p_namekey")

	down, _, err := driver.ReadDown(first)
	require.NoError(t, err)
	_ = down.Close()
}

func TestOpenSource_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_extra.up.sql"), []byte("SELECT 1;"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_extra.down.sql"), []byte("SELECT 1;"), 0o600))

	driver, origin, err := openSource(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	assert.Equal(t, sourceFile, origin)

	first, err := driver.First()
	require.NoError(t, err)
	assert.Equal(t, uint(7), first)
}

func TestOpenSource_MissingDirectory(t *testing.T) {
	_, _, err := openSource(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestMigrateLogger(t *testing.T) {
	var buffer bytes.Buffer

	quiet := &migrateLogger{logger: slog.New(slog.NewTextHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelInfo}))}
	assert.False(t, quiet.Verbose())

	verbose := &migrateLogger{logger: slog.New(slog.NewTextHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	assert.True(t, verbose.Verbose())

	verbose.Printf("Finished 2/u anime_functions (read 1ms, ran 2ms)\n")
	assert.Contains(t, buffer.String(), `msg="Finished 2/u anime_functions (read 1ms, ran 2ms)"`)
}
