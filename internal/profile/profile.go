// Package profile holds the statistics record that flows from the extractor to the renderer.
package profile

import (
	"errors"
)

// NotAvailable is the display value of Rank and Rating when they could not be determined.
const NotAvailable = "N/A"

// ProfileStats is the set of statistics shown on a badge.
//
// Total == 0 means either "no problems" or "unknown", the two are not distinguished.
type ProfileStats struct {
	Username string
	Rank     string
	Rating   string
	Solved   int
	Total    int
}

// Unknown returns a record for username with every statistic undetermined.
func Unknown(username string) ProfileStats {
	return ProfileStats{
		Username: username,
		Rank:     NotAvailable,
		Rating:   NotAvailable,
	}
}

// Valid reports whether the record can be rendered as a full card. Rank is the validity
// flag of the whole record: when it is missing the other fields are not trusted.
func (s ProfileStats) Valid() bool {
	return s.Rank != NotAvailable
}

type Status int

const (
	// StatusComplete means every statistic was found on the page.
	StatusComplete Status = iota
	// StatusPartial means the page had the expected shape but some values were missing or malformed.
	StatusPartial
	// StatusUnavailable means no statistics could be determined at all.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusPartial:
		return "partial"
	case StatusUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Result is the outcome of an extraction.
//
// Stats is always safe to read: for StatusUnavailable it is Unknown(username).
type Result struct {
	Status Status
	Stats  ProfileStats
	// Issues lists every degradation that happened, in the order it was found.
	Issues []error
}

// Unavailable creates a Result that short-circuits to the error card.
func Unavailable(username string, reason error) Result {
	res := Result{
		Status: StatusUnavailable,
		Stats:  Unknown(username),
	}
	if reason != nil {
		res.Issues = []error{reason}
	}
	return res
}

// Usable reports whether the result should be rendered as a full card.
func (r Result) Usable() bool {
	return r.Status != StatusUnavailable && r.Stats.Valid()
}

// Err joins every issue into a single error, it is nil for complete results.
func (r Result) Err() error {
	return errors.Join(r.Issues...)
}
