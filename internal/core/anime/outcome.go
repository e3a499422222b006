// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import "strings"

// # Outcome Labels

// Kind is the status half of an outcome label.
type Kind string

const (
	KindSuccess Kind = "Success"
	KindFailure Kind = "Failure"
)

// Label builds the "Kind: name" key under which an outcome is recorded.
func Label(kind Kind, name string) string {
	return string(kind) + ": " + name
}

// # Outcome Messages

const (
	msgCreated        = "successfully created the record: %s"
	msgDuplicate      = "duplicate record detected, not created for: %s"
	msgUpdated        = "successfully updated the record: %s"
	msgUpdateConflict = "duplicate record detected, update aborted for: %s"
	msgUpdateMissing  = "record not found, not updated for: %s"
	msgDeleted        = "successfully deleted the record: %s"
	msgDeleteMissing  = "record not found, not deleted for: %s"
)

// # Results

// Outcome is a single labeled entry of a batch result.
type Outcome struct {
	Label   string
	Message string
}

// Results collects outcomes for one batch call. Entries are insert-once:
// recording a label a second time is ignored and reported.
//
// # Concurrency
//
// Results is not safe for concurrent use. Batches are processed sequentially.
type Results struct {
	entries map[string]string
	order   []string
}

// NewResults returns an empty [Results].
func NewResults() *Results {
	return &Results{entries: make(map[string]string)}
}

// Record inserts an outcome for name. It returns false when the label was
// already present, leaving the first message in place.
func (results *Results) Record(kind Kind, name, message string) bool {
	label := Label(kind, name)
	if _, exists := results.entries[label]; exists {
		return false
	}
	results.entries[label] = message
	results.order = append(results.order, label)
	return true
}

// Outcomes returns the recorded entries in insertion order.
func (results *Results) Outcomes() []Outcome {
	outcomes := make([]Outcome, 0, len(results.order))
	for _, label := range results.order {
		outcomes = append(outcomes, Outcome{Label: label, Message: results.entries[label]})
	}
	return outcomes
}

// Aggregate tallies the recorded entries into an [Aggregate].
func (results *Results) Aggregate() Aggregate {
	mapping := make(map[string]string, len(results.entries))
	for label, message := range results.entries {
		mapping[label] = message
	}

	success, failure := Tally(mapping)
	return Aggregate{
		SuccessCount: success,
		FailureCount: failure,
		Results:      mapping,
	}
}

// # Aggregate

// Aggregate is the tallied result returned for every write call.
type Aggregate struct {
	SuccessCount int               `json:"successCount"`
	FailureCount int               `json:"failureCount"`
	Results      map[string]string `json:"results"`
}

// Succeeded reports whether at least one item went through.
func (aggregate Aggregate) Succeeded() bool {
	return aggregate.SuccessCount > 0
}

// Tally counts every label into exactly one bucket by its marker prefix.
func Tally(outcomes map[string]string) (successCount, failureCount int) {
	for label := range outcomes {
		switch {
		case strings.HasPrefix(label, string(KindSuccess)+": "):
			successCount++
		case strings.HasPrefix(label, string(KindFailure)+": "):
			failureCount++
		default:
			// Labels without a marker count as failures.
			failureCount++
		}
	}
	return successCount, failureCount
}
