// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import "context"

// Repository is the record store for the catalog.
//
// Lookups return [ErrNotFound] when no live record matches. Name lookups are
// case-insensitive. Every other failure is a store failure and is returned
// unchanged to the caller.
type Repository interface {
	FindByName(context context.Context, name string) (*Anime, error)
	FindByID(context context.Context, id int64) (*Anime, error)
	List(context context.Context, filter Filter, limit, offset int) ([]*Anime, error)
	Count(context context.Context, filter Filter) (int, error)

	// Create assigns the ID and timestamps on success.
	Create(context context.Context, anime *Anime) error
	// Update replaces the record with anime.ID and refreshes UpdatedAt.
	Update(context context.Context, anime *Anime) error
	// DeleteByName soft-deletes the record and stamps actor as its last editor.
	DeleteByName(context context.Context, name, actor string) error
}
