// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// Request IDs and catalog event IDs use it, so log lines and JetStream
// messages sort by creation time.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// If the clock sequence cannot be produced it falls back to a random UUIDv4
// rather than failing the caller.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
