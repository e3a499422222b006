// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package normalize turns display names into lookup keys.
//
// # Usage
//
// Anime names are stored as entered ("One Piece") but looked up, compared and
// cached by their key ("one piece"). Every boundary that accepts a name goes
// through [Name] so two spellings that differ only in case or Unicode
// composition resolve to the same record.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// lowerTag selects language-neutral casing. A [cases.Caser] is not safe for
// concurrent use, so one is built per call.
var lowerTag = language.Und

// Name returns the canonical lookup key for a display name.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFC so composed and decomposed accents compare equal.
// 3. Lower-cases with language-neutral rules.
// 4. Collapses internal whitespace runs into a single space.
func Name(s string) string {
	result := norm.NFC.String(strings.TrimSpace(s))
	result = cases.Lower(lowerTag).String(result)
	return strings.Join(strings.Fields(result), " ")
}

// Display collapses whitespace and NFC-composes a display name, leaving its
// case alone. Stores keep Display next to [Name] and never derive one from
// the other with their own case folding.
func Display(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Equal reports whether two display names share a lookup key.
func Equal(a, b string) bool {
	return Name(a) == Name(b)
}
