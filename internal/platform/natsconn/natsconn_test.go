// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package natsconn_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animeapi/internal/platform/natsconn"
)

type fakeStreams struct {
	info    *nats.StreamInfo
	infoErr error
	added   *nats.StreamConfig
	updated *nats.StreamConfig
}

func (f *fakeStreams) StreamInfo(string, ...nats.JSOpt) (*nats.StreamInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeStreams) AddStream(cfg *nats.StreamConfig, _ ...nats.JSOpt) (*nats.StreamInfo, error) {
	f.added = cfg
	return &nats.StreamInfo{Config: *cfg}, nil
}

func (f *fakeStreams) UpdateStream(cfg *nats.StreamConfig, _ ...nats.JSOpt) (*nats.StreamInfo, error) {
	f.updated = cfg
	return &nats.StreamInfo{Config: *cfg}, nil
}

func TestEnsureStream_Creates(t *testing.T) {
	streams := &fakeStreams{infoErr: nats.ErrStreamNotFound}

	require.NoError(t, natsconn.EnsureStream(streams, "ANIME_EVENTS", "anime.>"))
	require.NotNil(t, streams.added)
	assert.Equal(t, []string{"anime.>"}, streams.added.Subjects)
	assert.Nil(t, streams.updated)
}

func TestEnsureStream_AddsMissingSubject(t *testing.T) {
	streams := &fakeStreams{info: &nats.StreamInfo{Config: nats.StreamConfig{Name: "ANIME_EVENTS", Subjects: []string{"legacy.>"}}}}

	require.NoError(t, natsconn.EnsureStream(streams, "ANIME_EVENTS", "anime.>"))
	require.NotNil(t, streams.updated)
	assert.ElementsMatch(t, []string{"legacy.>", "anime.>"}, streams.updated.Subjects)
}

func TestEnsureStream_AlreadyCovered(t *testing.T) {
	streams := &fakeStreams{info: &nats.StreamInfo{Config: nats.StreamConfig{Subjects: []string{"anime.>"}}}}

	require.NoError(t, natsconn.EnsureStream(streams, "ANIME_EVENTS", "anime.>"))
	assert.Nil(t, streams.added)
	assert.Nil(t, streams.updated)
}

func TestEnsureStream_PropagatesLookupFailure(t *testing.T) {
	streams := &fakeStreams{infoErr: errors.New("timeout")}
	assert.Error(t, natsconn.EnsureStream(streams, "ANIME_EVENTS", "anime.>"))
}

func TestConnect_Unreachable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := natsconn.Connect(natsconn.Options{
		URL:           "nats://127.0.0.1:19999",
		MaxReconnects: -1,
		ReconnectWait: 10 * time.Millisecond,
	}, logger)
	assert.Error(t, err)

	_, err = natsconn.Connect(natsconn.Options{}, logger)
	assert.Error(t, err)
}

type fakeStatus nats.Status

func (status fakeStatus) Status() nats.Status { return nats.Status(status) }

func TestPing(t *testing.T) {
	assert.NoError(t, natsconn.Ping(fakeStatus(nats.CONNECTED)))
	assert.Error(t, natsconn.Ping(fakeStatus(nats.RECONNECTING)))
	assert.Error(t, natsconn.Ping(fakeStatus(nats.CLOSED)))
}
