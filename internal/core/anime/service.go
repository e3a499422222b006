// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/animeapi/internal/platform/apperr"
	"github.com/taibuivan/animeapi/internal/platform/constants"
	"github.com/taibuivan/animeapi/internal/platform/validate"
	"github.com/taibuivan/animeapi/pkg/normalize"
	"github.com/taibuivan/animeapi/pkg/pagination"
	"github.com/taibuivan/animeapi/pkg/slice"
)

var (
	// ErrCatalogEmpty is returned by window listings when no record exists at all.
	ErrCatalogEmpty = apperr.NotFoundf("No anime records found")
)

// # Service Layer

// Service validates catalog requests and hands writes to the [BatchProcessor].
type Service struct {
	repo         Repository
	batch        *BatchProcessor
	maxBatchSize int
	logger       *slog.Logger
	now          func() time.Time
}

// NewService constructs a new anime [Service].
func NewService(repo Repository, events EventPublisher, maxBatchSize int, logger *slog.Logger) *Service {
	if maxBatchSize <= 0 {
		maxBatchSize = constants.DefaultMaxBatchSize
	}
	return &Service{
		repo:         repo,
		batch:        NewBatchProcessor(repo, events, logger),
		maxBatchSize: maxBatchSize,
		logger:       logger,
		now:          time.Now,
	}
}

// # Reads

/*
Get retrieves a record by name, compared case-insensitively.

Returns:
  - *Anime: The stored record
  - error: ErrNotFound if missing
*/
func (service *Service) Get(context context.Context, name string) (*Anime, error) {
	if err := (&validate.Validator{}).Required(FieldName, name).Err(); err != nil {
		return nil, err
	}
	return service.repo.FindByName(context, normalize.Name(name))
}

/*
List retrieves a filtered page of the catalog ordered by ID.

Returns:
  - []*Anime: The page
  - int: Total matching count
  - error: Validation or retrieval errors
*/
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Anime, int, error) {
	if filter.Status != "" {
		validator := &validate.Validator{}
		if err := validator.OneOf(FieldStatus, string(filter.Status), Statuses...).Err(); err != nil {
			return nil, 0, err
		}
	}
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Genres = tidyGenres(filter.Genres)

	total, err := service.repo.Count(context, filter)
	if err != nil {
		return nil, 0, err
	}

	items, err := service.repo.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

/*
ListWindow retrieves pageSize records starting at the zero-based startIndex.

Returns:
  - []*Anime: The window, possibly empty past the end of the catalog
  - int: Total record count
  - error: ErrCatalogEmpty when the catalog holds no record at all
*/
func (service *Service) ListWindow(context context.Context, startIndex, pageSize int) ([]*Anime, int, error) {
	validator := &validate.Validator{}
	validator.
		Custom("startIndex", startIndex < 0, "Must be 0 or greater").
		Range("pageSize", pageSize, 1, pagination.MaxLimit)
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	items, total, err := service.List(context, Filter{}, pagination.FromWindow(startIndex, pageSize))
	if err != nil {
		return nil, 0, err
	}

	if total == 0 {
		return nil, 0, ErrCatalogEmpty
	}
	return items, total, nil
}

// # Writes

// Create creates a single record. A taken name is reported in the result, not as an error.
func (service *Service) Create(context context.Context, item *Anime, actor string) (Aggregate, error) {
	if err := service.validateItems([]*Anime{item}, false, false); err != nil {
		return Aggregate{}, err
	}
	return service.create(context, []*Anime{item}, actor)
}

// CreateBulk creates a batch of records, skipping names that are already taken.
func (service *Service) CreateBulk(context context.Context, items []*Anime, actor string) (Aggregate, error) {
	if err := service.validateItems(items, false, true); err != nil {
		return Aggregate{}, err
	}
	return service.create(context, items, actor)
}

func (service *Service) create(context context.Context, items []*Anime, actor string) (Aggregate, error) {
	for _, item := range items {
		item.ID = 0
		item.CreatedBy = actor
		item.UpdatedBy = actor
	}

	aggregate, err := service.batch.CreateBulk(context, items)
	if err != nil {
		return Aggregate{}, err
	}

	service.logProcessed(context, "create", len(items), aggregate)
	return aggregate, nil
}

// Update updates a single record identified by its ID.
func (service *Service) Update(context context.Context, item *Anime, actor string) (Aggregate, error) {
	if err := service.validateItems([]*Anime{item}, true, false); err != nil {
		return Aggregate{}, err
	}

	if _, err := service.repo.FindByID(context, item.ID); err != nil {
		return Aggregate{}, err
	}

	return service.update(context, []*Anime{item}, actor)
}

// UpdateBulk updates a batch of records. A name held by another record aborts the whole batch.
func (service *Service) UpdateBulk(context context.Context, items []*Anime, actor string) (Aggregate, error) {
	if err := service.validateItems(items, true, true); err != nil {
		return Aggregate{}, err
	}
	return service.update(context, items, actor)
}

func (service *Service) update(context context.Context, items []*Anime, actor string) (Aggregate, error) {
	for _, item := range items {
		item.UpdatedBy = actor
	}

	aggregate, err := service.batch.UpdateBulk(context, items)
	if err != nil {
		return Aggregate{}, err
	}

	service.logProcessed(context, "update", len(items), aggregate)
	return aggregate, nil
}

// Delete removes a single record by name. A missing name yields [ErrNotFound]
// and the store's delete is never called.
func (service *Service) Delete(context context.Context, name, actor string) (Aggregate, error) {
	names, err := service.validateNames([]string{name}, false)
	if err != nil {
		return Aggregate{}, err
	}

	aggregate, err := service.delete(context, names, actor)
	if err != nil {
		return Aggregate{}, err
	}

	if !aggregate.Succeeded() {
		return Aggregate{}, ErrNotFound
	}
	return aggregate, nil
}

// DeleteBulk removes a batch of records by name, recording missing names as failures.
func (service *Service) DeleteBulk(context context.Context, names []string, actor string) (Aggregate, error) {
	names, err := service.validateNames(names, true)
	if err != nil {
		return Aggregate{}, err
	}
	return service.delete(context, names, actor)
}

func (service *Service) delete(context context.Context, names []string, actor string) (Aggregate, error) {
	aggregate, err := service.batch.DeleteBulk(context, names, actor)
	if err != nil {
		return Aggregate{}, err
	}

	service.logProcessed(context, "delete", len(names), aggregate)
	return aggregate, nil
}

func (service *Service) logProcessed(context context.Context, operation string, size int, aggregate Aggregate) {
	service.logger.InfoContext(context, "anime_batch_processed",
		slog.String("operation", operation),
		slog.Int("batch_size", size),
		slog.Int("success_count", aggregate.SuccessCount),
		slog.Int("failure_count", aggregate.FailureCount),
	)
}

// # Validation

// validateItems checks every item before any store call. A single failing
// item rejects the whole request. Names are tidied in place.
func (service *Service) validateItems(items []*Anime, requireID, batch bool) error {
	if err := service.validateSize(len(items)); err != nil {
		return err
	}

	today := service.today()
	validator := &validate.Validator{}
	seenNames := make(map[string]int, len(items))
	seenIDs := make(map[int64]int, len(items))

	for index, item := range items {
		start := validator.Len()

		if item == nil {
			validator.Custom("item", true, "Item must not be null")
		} else {
			item.Name = normalize.Display(item.Name)
			item.Genres = tidyGenres(item.Genres)
			validateItem(validator, item, requireID, today)

			if key := normalize.Name(item.Name); key != "" {
				if first, dup := seenNames[key]; dup {
					validator.Custom(FieldName, true, fmt.Sprintf("Duplicate of item %d in this request", first))
				} else {
					seenNames[key] = index
				}
			}

			if requireID && item.ID > 0 {
				if first, dup := seenIDs[item.ID]; dup {
					validator.Custom(FieldID, true, fmt.Sprintf("Duplicate of item %d in this request", first))
				} else {
					seenIDs[item.ID] = index
				}
			}
		}

		if batch {
			validator.Prefix(fmt.Sprintf("[%d].", index), start)
		}
	}

	return validator.Err()
}

func validateItem(validator *validate.Validator, item *Anime, requireID bool, today time.Time) {
	if requireID {
		validator.Custom(FieldID, item.ID <= 0, "Must be greater than 0")
	}

	validator.
		Required(FieldName, item.Name).
		MaxLen(FieldName, item.Name, MaxNameLength).
		OneOf(FieldStatus, string(item.Status), Statuses...).
		Positive(FieldStudioID, item.StudioID).
		NotAfter(FieldReleaseDate, item.ReleaseDate.Time, today).
		Positive(FieldEpisodeCount, item.EpisodeCount).
		NotEmptyList(FieldGenres, item.Genres)
}

// validateNames checks a delete request and returns the tidied names.
func (service *Service) validateNames(names []string, batch bool) ([]string, error) {
	if err := service.validateSize(len(names)); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	seen := make(map[string]int, len(names))
	tidied := make([]string, 0, len(names))

	for index, raw := range names {
		start := validator.Len()
		name := normalize.Display(raw)
		validator.Required(FieldName, name)

		if key := normalize.Name(name); key != "" {
			if first, dup := seen[key]; dup {
				validator.Custom(FieldName, true, fmt.Sprintf("Duplicate of item %d in this request", first))
			} else {
				seen[key] = index
			}
		}

		if batch {
			validator.Prefix(fmt.Sprintf("[%d].", index), start)
		}
		tidied = append(tidied, name)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return tidied, nil
}

func (service *Service) validateSize(size int) error {
	if size == 0 {
		return validate.RequiredError(FieldItems, "At least one item is required")
	}
	if size > service.maxBatchSize {
		return validate.RequiredError(FieldItems, fmt.Sprintf("At most %d items per request", service.maxBatchSize))
	}
	return nil
}

// today is the latest accepted release date: the current calendar day in UTC.
func (service *Service) today() time.Time {
	now := service.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// tidyGenres trims genres and drops blanks and case-insensitive repeats.
func tidyGenres(genres []string) []string {
	trimmed := slice.Filter(slice.Map(genres, strings.TrimSpace), func(genre string) bool { return genre != "" })
	return slice.UniqueBy(trimmed, strings.ToLower)
}
