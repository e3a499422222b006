// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/animeapi/internal/platform/apperr"
)

// # Batch Processor

// BatchProcessor applies ordered batches of writes to the record store and
// tallies one outcome per item.
//
// Items are processed strictly in input order with one store round trip at a
// time. Per-item outcomes (duplicates, missing records) are recorded and the
// batch continues; a store failure aborts the rest of the batch and the
// partial result is discarded. Writes that already went through stay written.
type BatchProcessor struct {
	repo    Repository
	checker *DuplicateChecker
	events  EventPublisher
	logger  *slog.Logger
}

// NewBatchProcessor constructs a [BatchProcessor].
func NewBatchProcessor(repo Repository, events EventPublisher, logger *slog.Logger) *BatchProcessor {
	if events == nil {
		events = NopPublisher{}
	}
	return &BatchProcessor{
		repo:    repo,
		checker: NewDuplicateChecker(repo),
		events:  events,
		logger:  logger,
	}
}

/*
CreateBulk creates every item whose name is not yet taken.

Duplicates are skipped and recorded as failures; the remaining items are
created. CreatedBy must already be stamped on each item.

Returns:
  - Aggregate: One outcome per item
  - error: The first store failure, if any
*/
func (processor *BatchProcessor) CreateBulk(context context.Context, items []*Anime) (Aggregate, error) {
	results := NewResults()

	for _, item := range items {
		exists, err := processor.checker.Exists(context, item.Name)
		if err != nil {
			return Aggregate{}, processor.abort(context, err, "create", item.Name)
		}

		if exists {
			results.Record(KindFailure, item.Name, fmt.Sprintf(msgDuplicate, item.Name))
			continue
		}

		err = processor.repo.Create(context, item)

		// A concurrent writer may claim the name between the check and the insert.
		if apperr.HasCode(err, apperr.CodeConflict) {
			results.Record(KindFailure, item.Name, fmt.Sprintf(msgDuplicate, item.Name))
			continue
		}
		if err != nil {
			return Aggregate{}, processor.abort(context, err, "create", item.Name)
		}

		results.Record(KindSuccess, item.Name, fmt.Sprintf(msgCreated, item.Name))
		processor.publish(context, ActionCreated, item.ID, item.Name, item.CreatedBy)
	}

	return results.Aggregate(), nil
}

/*
UpdateBulk updates every item, or none of them.

The whole batch is scanned first: if any item's name already belongs to a
different record, the batch is aborted before any write and the first offender
is reported. Otherwise items are updated in input order. An item whose ID no
longer exists is recorded as a failure and the batch continues.

Returns:
  - Aggregate: The abort outcome, or one outcome per item
  - error: The first store failure, if any
*/
func (processor *BatchProcessor) UpdateBulk(context context.Context, items []*Anime) (Aggregate, error) {
	results := NewResults()

	// 1. Pre-scan for names held by other records
	for _, item := range items {
		taken, err := processor.checker.TakenByOther(context, item.Name, item.ID)
		if err != nil {
			return Aggregate{}, processor.abort(context, err, "update", item.Name)
		}

		if taken {
			results.Record(KindFailure, item.Name, fmt.Sprintf(msgUpdateConflict, item.Name))
			processor.logger.InfoContext(context, "anime_update_batch_aborted",
				slog.String("anime_name", item.Name),
				slog.Int("batch_size", len(items)),
			)
			return results.Aggregate(), nil
		}
	}

	// 2. Write phase
	for _, item := range items {
		err := processor.repo.Update(context, item)

		switch {
		case errors.Is(err, ErrNotFound):
			results.Record(KindFailure, item.Name, fmt.Sprintf(msgUpdateMissing, item.Name))
			continue
		case apperr.HasCode(err, apperr.CodeConflict):
			results.Record(KindFailure, item.Name, fmt.Sprintf(msgUpdateConflict, item.Name))
			continue
		case err != nil:
			return Aggregate{}, processor.abort(context, err, "update", item.Name)
		}

		results.Record(KindSuccess, item.Name, fmt.Sprintf(msgUpdated, item.Name))
		processor.publish(context, ActionUpdated, item.ID, item.Name, item.UpdatedBy)
	}

	return results.Aggregate(), nil
}

/*
DeleteBulk deletes every named record that exists.

Missing names are recorded as failures without calling the store's delete.

Returns:
  - Aggregate: One outcome per name
  - error: The first store failure, if any
*/
func (processor *BatchProcessor) DeleteBulk(context context.Context, names []string, actor string) (Aggregate, error) {
	results := NewResults()

	for _, name := range names {
		owner, found, err := processor.checker.Owner(context, name)
		if err != nil {
			return Aggregate{}, processor.abort(context, err, "delete", name)
		}

		if !found {
			results.Record(KindFailure, name, fmt.Sprintf(msgDeleteMissing, name))
			continue
		}

		err = processor.repo.DeleteByName(context, name, actor)
		if errors.Is(err, ErrNotFound) {
			results.Record(KindFailure, name, fmt.Sprintf(msgDeleteMissing, name))
			continue
		}
		if err != nil {
			return Aggregate{}, processor.abort(context, err, "delete", name)
		}

		results.Record(KindSuccess, name, fmt.Sprintf(msgDeleted, name))
		processor.publish(context, ActionDeleted, owner.ID, owner.Name, actor)
	}

	return results.Aggregate(), nil
}

// abort logs a store failure with the operation and item name and returns it unchanged.
func (processor *BatchProcessor) abort(context context.Context, err error, operation, name string) error {
	processor.logger.ErrorContext(context, "anime_batch_aborted",
		slog.String("operation", operation),
		slog.String("anime_name", name),
		slog.Any("error", err),
	)
	return err
}

func (processor *BatchProcessor) publish(context context.Context, action Action, id int64, name, actor string) {
	event := Event{
		Action:     action,
		AnimeID:    id,
		Name:       name,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}

	if err := processor.events.Publish(context, event); err != nil {
		processor.logger.WarnContext(context, "anime_event_publish_failed",
			slog.String("subject", event.Subject()),
			slog.String("anime_name", name),
			slog.Any("error", err),
		)
	}
}
