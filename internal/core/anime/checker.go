// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"errors"

	"github.com/taibuivan/animeapi/pkg/normalize"
)

// DuplicateChecker decides whether a name is already taken in the store.
type DuplicateChecker struct {
	repo Repository
}

// NewDuplicateChecker constructs a [DuplicateChecker] over repo.
func NewDuplicateChecker(repo Repository) *DuplicateChecker {
	return &DuplicateChecker{repo: repo}
}

/*
Owner returns the live record holding name, if any.

Returns:
  - *Anime: The record, or nil when the name is free
  - bool: Whether a record was found
  - error: Store failures only; absence is not an error
*/
func (checker *DuplicateChecker) Owner(context context.Context, name string) (*Anime, bool, error) {
	found, err := checker.repo.FindByName(context, normalize.Name(name))
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return found, true, nil
}

// Exists reports whether any live record carries name, compared case-insensitively.
func (checker *DuplicateChecker) Exists(context context.Context, name string) (bool, error) {
	_, found, err := checker.Owner(context, name)
	return found, err
}

// TakenByOther reports whether name belongs to a record other than id.
func (checker *DuplicateChecker) TakenByOther(context context.Context, name string, id int64) (bool, error) {
	owner, found, err := checker.Owner(context, name)
	if err != nil || !found {
		return false, err
	}
	return owner.ID != id, nil
}
