// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Two request shapes are supported: page-based navigation ("page" and "limit"
// query parameters) and raw windows ("startIndex" and "pageSize" path segments).
// Both resolve to the same [Params] so stores only ever see LIMIT/OFFSET.
package pagination

import (
	"math"
	"net/http"

	"github.com/taibuivan/animeapi/pkg/convert"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 50
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage keeps (page-1)*limit within int for any accepted limit.
	MaxPage = math.MaxInt / MaxLimit
)

// Params holds the resolved window for a list request.
type Params struct {
	Page  int
	Limit int

	// start overrides the page-derived offset for window requests.
	start int
}

// Offset returns the SQL OFFSET value.
func (p Params) Offset() int {
	if p.start > 0 {
		return p.start
	}
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata for a response.
//
// It automatically calculates the TotalPages based on the total count and limit.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or negative values fall back to [DefaultPage] and [DefaultLimit].
// An oversized limit falls back to [DefaultLimit] and an oversized page is
// clamped to [MaxPage].
func FromRequest(r *http.Request) Params {
	page := convert.ToIntD(r.URL.Query().Get("page"), DefaultPage)
	limit := convert.ToIntD(r.URL.Query().Get("limit"), DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}

// FromWindow builds [Params] from a zero-based start index and a page size.
//
// A negative start is treated as zero and an out-of-range size falls back to
// [DefaultLimit]. Page is reported as the page the start index falls on.
func FromWindow(startIndex, pageSize int) Params {
	if startIndex < 0 {
		startIndex = 0
	}
	if pageSize < 1 || pageSize > MaxLimit {
		pageSize = DefaultLimit
	}

	return Params{
		Page:  startIndex/pageSize + 1,
		Limit: pageSize,
		start: startIndex,
	}
}
