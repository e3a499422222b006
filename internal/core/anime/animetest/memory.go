// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package animetest provides an in-process [anime.Repository] for tests.
package animetest

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/animeapi/internal/core/anime"
	"github.com/taibuivan/animeapi/internal/platform/apperr"
	"github.com/taibuivan/animeapi/pkg/normalize"
)

// ErrDuplicateName mirrors the unique-index violation of the SQL store.
var ErrDuplicateName = apperr.Conflict("Record already exists")

var _ anime.Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-process [anime.Repository]. It backs handler and batch
// tests and counts calls per operation so tests can assert which writes ran.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[int64]anime.Anime
	nextID  int64
	calls   map[string]int
	faults  map[string]error
	now     func() time.Time
}

// NewMemoryRepository returns an empty store, optionally seeded with records.
func NewMemoryRepository(seed ...anime.Anime) *MemoryRepository {
	repository := &MemoryRepository{
		records: make(map[int64]anime.Anime),
		calls:   make(map[string]int),
		faults:  make(map[string]error),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, a := range seed {
		_ = repository.Create(context.Background(), &a)
	}
	repository.calls = make(map[string]int)
	return repository
}

// Calls returns how many times operation ("create", "update", "delete",
// "find_by_name", ...) was invoked.
func (repository *MemoryRepository) Calls(operation string) int {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return repository.calls[operation]
}

// FailOn makes every later call to operation return err.
func (repository *MemoryRepository) FailOn(operation string, err error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.faults[operation] = err
}

// Len returns the number of live records.
func (repository *MemoryRepository) Len() int {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return len(repository.records)
}

// enter counts the call and returns the injected fault, if any.
// The caller must hold the write lock.
func (repository *MemoryRepository) enter(operation string) error {
	repository.calls[operation]++
	return repository.faults[operation]
}

func (repository *MemoryRepository) findByKey(key string) (anime.Anime, bool) {
	for _, a := range repository.records {
		if normalize.Name(a.Name) == key {
			return a, true
		}
	}
	return anime.Anime{}, false
}

func clone(a anime.Anime) *anime.Anime {
	a.Genres = append([]string(nil), a.Genres...)
	return &a
}

// # Reads

func (repository *MemoryRepository) FindByName(_ context.Context, name string) (*anime.Anime, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.enter("find_by_name"); err != nil {
		return nil, err
	}

	a, found := repository.findByKey(normalize.Name(name))
	if !found {
		return nil, anime.ErrNotFound
	}
	return clone(a), nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id int64) (*anime.Anime, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.enter("find_by_id"); err != nil {
		return nil, err
	}

	a, found := repository.records[id]
	if !found {
		return nil, anime.ErrNotFound
	}
	return clone(a), nil
}

func (repository *MemoryRepository) matching(filter anime.Filter) []anime.Anime {
	query := normalize.Name(filter.Query)

	var matched []anime.Anime
	for _, a := range repository.records {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if query != "" && !strings.Contains(normalize.Name(a.Name), query) {
			continue
		}
		if !containsAll(a.Genres, filter.Genres) {
			continue
		}
		matched = append(matched, a)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

func containsAll(have, want []string) bool {
	for _, genre := range want {
		if !slices.ContainsFunc(have, func(g string) bool { return strings.EqualFold(g, genre) }) {
			return false
		}
	}
	return true
}

func (repository *MemoryRepository) List(_ context.Context, filter anime.Filter, limit, offset int) ([]*anime.Anime, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.enter("list"); err != nil {
		return nil, err
	}

	matched := repository.matching(filter)
	if offset >= len(matched) {
		return []*anime.Anime{}, nil
	}

	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	items := make([]*anime.Anime, 0, end-offset)
	for _, a := range matched[offset:end] {
		items = append(items, clone(a))
	}
	return items, nil
}

func (repository *MemoryRepository) Count(_ context.Context, filter anime.Filter) (int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.enter("count"); err != nil {
		return 0, err
	}
	return len(repository.matching(filter)), nil
}

// # Writes

func (repository *MemoryRepository) Create(_ context.Context, a *anime.Anime) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.enter("create"); err != nil {
		return err
	}

	if _, taken := repository.findByKey(normalize.Name(a.Name)); taken {
		return ErrDuplicateName
	}

	repository.nextID++
	a.ID = repository.nextID
	a.CreatedAt = repository.now()
	a.UpdatedAt = a.CreatedAt
	a.UpdatedBy = a.CreatedBy

	repository.records[a.ID] = *clone(*a)
	return nil
}

func (repository *MemoryRepository) Update(_ context.Context, a *anime.Anime) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.enter("update"); err != nil {
		return err
	}

	current, found := repository.records[a.ID]
	if !found {
		return anime.ErrNotFound
	}
	if other, taken := repository.findByKey(normalize.Name(a.Name)); taken && other.ID != a.ID {
		return ErrDuplicateName
	}

	a.CreatedBy = current.CreatedBy
	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = repository.now()

	repository.records[a.ID] = *clone(*a)
	return nil
}

func (repository *MemoryRepository) DeleteByName(_ context.Context, name, _ string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.enter("delete"); err != nil {
		return err
	}

	a, found := repository.findByKey(normalize.Name(name))
	if !found {
		return anime.ErrNotFound
	}
	delete(repository.records, a.ID)
	return nil
}
