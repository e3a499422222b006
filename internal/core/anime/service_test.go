// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animeapi/internal/core/anime"
	"github.com/taibuivan/animeapi/internal/core/anime/animetest"
	"github.com/taibuivan/animeapi/internal/platform/apperr"
	"github.com/taibuivan/animeapi/pkg/pagination"
)

func newService(seed ...anime.Anime) (*anime.Service, *animetest.MemoryRepository) {
	repo := animetest.NewMemoryRepository(seed...)
	return anime.NewService(repo, anime.NopPublisher{}, 5, discardLogger), repo
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected an AppError, got %v", err)
	require.Equal(t, apperr.CodeValidation, ae.Code)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	return fields
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *anime.Anime)
		field  string
	}{
		{"missing_name", func(a *anime.Anime) { a.Name = "   " }, anime.FieldName},
		{"long_name", func(a *anime.Anime) { a.Name = strings.Repeat("a", 101) }, anime.FieldName},
		{"unknown_status", func(a *anime.Anime) { a.Status = "Paused" }, anime.FieldStatus},
		{"zero_studio", func(a *anime.Anime) { a.StudioID = 0 }, anime.FieldStudioID},
		{"future_release", func(a *anime.Anime) { a.ReleaseDate = anime.Date{Time: time.Now().AddDate(0, 0, 2)} }, anime.FieldReleaseDate},
		{"missing_release", func(a *anime.Anime) { a.ReleaseDate = anime.Date{} }, anime.FieldReleaseDate},
		{"zero_episodes", func(a *anime.Anime) { a.EpisodeCount = 0 }, anime.FieldEpisodeCount},
		{"blank_genres", func(a *anime.Anime) { a.Genres = []string{"", " "} }, anime.FieldGenres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newService()
			item := samplePtr("Naruto")
			tt.mutate(item)

			_, err := service.Create(context.Background(), item, "tester")

			assert.Contains(t, fieldsOf(t, err), tt.field)
			assert.Zero(t, repo.Calls("find_by_name"), "validation happens before any store call")
		})
	}
}

func TestService_Create_StampsActorAndTidiesName(t *testing.T) {
	service, repo := newService()

	item := samplePtr("  One   Piece ")
	item.ID = 42

	aggregate, err := service.Create(context.Background(), item, "editor-1")
	require.NoError(t, err)
	assert.Equal(t, "successfully created the record: One Piece", aggregate.Results["Success: One Piece"])

	stored, err := repo.FindByName(context.Background(), "one piece")
	require.NoError(t, err)
	assert.Equal(t, "One Piece", stored.Name)
	assert.Equal(t, "editor-1", stored.CreatedBy)
	assert.Equal(t, "editor-1", stored.UpdatedBy)
	assert.NotEqual(t, int64(42), stored.ID, "client-supplied IDs are ignored on create")
}

func TestService_Create_TidiesGenres(t *testing.T) {
	service, repo := newService()

	item := samplePtr("Monster")
	item.Genres = []string{" Thriller", "", "thriller", "Mystery "}

	_, err := service.Create(context.Background(), item, "editor-1")
	require.NoError(t, err)

	stored, err := repo.FindByName(context.Background(), "monster")
	require.NoError(t, err)
	assert.Equal(t, []string{"Thriller", "Mystery"}, stored.Genres)
}

func TestService_CreateBulk_BatchRules(t *testing.T) {
	service, repo := newService()

	_, err := service.CreateBulk(context.Background(), nil, "tester")
	assert.Contains(t, fieldsOf(t, err), anime.FieldItems)

	_, err = service.CreateBulk(context.Background(), samples("A", "B", "C", "D", "E", "F"), "tester")
	assert.Contains(t, fieldsOf(t, err), anime.FieldItems)

	_, err = service.CreateBulk(context.Background(), samples("Naruto", "Bleach", "NARUTO"), "tester")
	assert.Equal(t, []string{"[2].name"}, fieldsOf(t, err))

	invalid := samples("Naruto", "Bleach")
	invalid[1].EpisodeCount = -1
	_, err = service.CreateBulk(context.Background(), invalid, "tester")
	assert.Equal(t, []string{"[1].episodeCount"}, fieldsOf(t, err))

	_, err = service.CreateBulk(context.Background(), []*anime.Anime{samplePtr("A"), nil}, "tester")
	assert.Equal(t, []string{"[1].item"}, fieldsOf(t, err))

	assert.Zero(t, repo.Calls("create"), "one invalid item rejects the whole batch")
}

func TestService_Update(t *testing.T) {
	service, repo := newService(sample("Naruto"))

	item := samplePtr("Naruto")
	item.ID = 1
	item.Status = anime.StatusCompleted

	aggregate, err := service.Update(context.Background(), item, "editor-2")
	require.NoError(t, err)
	assert.Equal(t, 1, aggregate.SuccessCount)

	stored, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, anime.StatusCompleted, stored.Status)
	assert.Equal(t, "editor-2", stored.UpdatedBy)
}

func TestService_Update_MissingIDAndUnknownRecord(t *testing.T) {
	service, repo := newService(sample("Naruto"))

	_, err := service.Update(context.Background(), samplePtr("Naruto"), "tester")
	assert.Contains(t, fieldsOf(t, err), anime.FieldID)

	ghost := samplePtr("Ghost")
	ghost.ID = 77
	_, err = service.Update(context.Background(), ghost, "tester")
	assert.ErrorIs(t, err, anime.ErrNotFound)
	assert.Zero(t, repo.Calls("update"))
}

func TestService_UpdateBulk_DuplicateIDs(t *testing.T) {
	service, _ := newService(sample("Naruto"))

	items := samples("Naruto", "Naruto Shippuden")
	items[0].ID = 1
	items[1].ID = 1

	_, err := service.UpdateBulk(context.Background(), items, "tester")
	assert.Equal(t, []string{"[1].animeId"}, fieldsOf(t, err))
}

func TestService_Delete(t *testing.T) {
	service, repo := newService(sample("Naruto"))

	_, err := service.Delete(context.Background(), "Ghost", "admin")
	assert.ErrorIs(t, err, anime.ErrNotFound)
	assert.Zero(t, repo.Calls("delete"), "not-found must not invoke the store's delete")

	aggregate, err := service.Delete(context.Background(), "NARUTO", "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, aggregate.SuccessCount)
	assert.Zero(t, repo.Len())

	_, err = service.Delete(context.Background(), " ", "admin")
	assert.Contains(t, fieldsOf(t, err), anime.FieldName)
}

func TestService_DeleteBulk_Validation(t *testing.T) {
	service, _ := newService()

	_, err := service.DeleteBulk(context.Background(), []string{"Naruto", "naruto "}, "admin")
	assert.Equal(t, []string{"[1].name"}, fieldsOf(t, err))

	_, err = service.DeleteBulk(context.Background(), []string{}, "admin")
	assert.Contains(t, fieldsOf(t, err), anime.FieldItems)
}

func TestService_Get(t *testing.T) {
	service, _ := newService(sample("Naruto"))

	found, err := service.Get(context.Background(), "naruto")
	require.NoError(t, err)
	assert.Equal(t, "Naruto", found.Name)

	_, err = service.Get(context.Background(), "bleach")
	assert.ErrorIs(t, err, anime.ErrNotFound)
}

func TestService_List(t *testing.T) {
	completed := sample("Monster")
	completed.Status = anime.StatusCompleted
	service, _ := newService(sample("Naruto"), sample("Bleach"), completed)

	items, total, err := service.List(context.Background(), anime.Filter{Status: anime.StatusOngoing}, pagination.Params{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Naruto", items[0].Name)

	items, total, err = service.List(context.Background(), anime.Filter{Query: "ble"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Bleach", items[0].Name)

	thriller := sample("Monster")
	thriller.Genres = []string{"Thriller"}
	service, _ = newService(sample("Naruto"), thriller)

	items, total, err = service.List(context.Background(), anime.Filter{Genres: []string{" Thriller "}}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Monster", items[0].Name)

	_, _, err = service.List(context.Background(), anime.Filter{Status: "Paused"}, pagination.Params{Page: 1, Limit: 10})
	assert.Contains(t, fieldsOf(t, err), anime.FieldStatus)
}

func TestService_ListWindow(t *testing.T) {
	empty, _ := newService()
	_, _, err := empty.ListWindow(context.Background(), 0, 10)
	assert.True(t, errors.Is(err, anime.ErrCatalogEmpty))

	service, _ := newService(sample("A"), sample("B"), sample("C"))

	items, total, err := service.ListWindow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[0].Name)

	items, _, err = service.ListWindow(context.Background(), 10, 2)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, _, err = service.ListWindow(context.Background(), -1, 0)
	assert.ElementsMatch(t, []string{"startIndex", "pageSize"}, fieldsOf(t, err))
}
