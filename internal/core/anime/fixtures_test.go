// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/animeapi/internal/core/anime"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// sample returns a record that passes every validation rule.
func sample(name string) anime.Anime {
	return anime.Anime{
		Name:         name,
		Status:       anime.StatusOngoing,
		StudioID:     7,
		ReleaseDate:  anime.NewDate(2002, time.October, 3),
		EpisodeCount: 220,
		Genres:       []string{"Action", "Adventure"},
	}
}

func samplePtr(name string) *anime.Anime {
	a := sample(name)
	return &a
}

func samples(names ...string) []*anime.Anime {
	items := make([]*anime.Anime, 0, len(names))
	for _, name := range names {
		items = append(items, samplePtr(name))
	}
	return items
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []anime.Event
	err    error
}

func (publisher *recordingPublisher) Publish(_ context.Context, event anime.Event) error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	publisher.events = append(publisher.events, event)
	return publisher.err
}

func (publisher *recordingPublisher) actions() []anime.Action {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	actions := make([]anime.Action, 0, len(publisher.events))
	for _, event := range publisher.events {
		actions = append(actions, event.Action)
	}
	return actions
}

var errStoreDown = errors.New("connection reset by peer")
