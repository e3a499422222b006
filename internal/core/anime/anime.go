// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package anime implements the anime catalog: the record store, the duplicate
checker, the batch processor and the HTTP handler that fronts them.

Names are the business key. They are stored as entered and compared
case-insensitively; identifiers are assigned by the store and only used to
disambiguate updates.
*/
package anime

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/taibuivan/animeapi/internal/platform/apperr"
)

// # Domain Entities

// Status is the airing state of a series.
type Status string

const (
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
	StatusPlanned   Status = "Planned"
	StatusCancelled Status = "Cancelled"
)

// Statuses lists every accepted [Status] value.
var Statuses = []string{
	string(StatusOngoing),
	string(StatusCompleted),
	string(StatusPlanned),
	string(StatusCancelled),
}

// Anime is a single catalog record.
type Anime struct {
	ID           int64     `json:"animeId"`
	Name         string    `json:"name"`
	Status       Status    `json:"status"`
	StudioID     int       `json:"studioId"`
	ReleaseDate  Date      `json:"releaseDate"`
	EpisodeCount int       `json:"episodeCount"`
	Genres       []string  `json:"genres"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	UpdatedBy    string    `json:"updatedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Filter holds the parameters for a paginated catalog search.
type Filter struct {
	Status Status   // Exact status match
	Query  string   // Substring match against the name
	Genres []string // Every listed genre must be present
}

// # Dates

const dateLayout = "2006-01-02"

// Date is a calendar day. It accepts both "2006-01-02" and RFC 3339 input and
// always renders as "2006-01-02".
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if string(data) == "null" {
		d.Time = time.Time{}
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	raw = strings.TrimSpace(raw)
	if parsed, err := time.Parse(dateLayout, raw); err == nil {
		d.Time = parsed
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return err
	}
	d.Time = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

// # Errors

var (
	// ErrNotFound signals that no live record matches the requested key.
	ErrNotFound = apperr.NotFound("Anime")
)

// # Validation

// Global field names for validation
const (
	FieldID           = "animeId"
	FieldName         = "name"
	FieldStatus       = "status"
	FieldStudioID     = "studioId"
	FieldReleaseDate  = "releaseDate"
	FieldEpisodeCount = "episodeCount"
	FieldGenres       = "genres"
	FieldItems        = "items"
)

// MaxNameLength bounds the display name in characters.
const MaxNameLength = 100
