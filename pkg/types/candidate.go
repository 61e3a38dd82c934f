// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the talent-radar pipeline:
// candidate records parsed from channel messages, web search items, filters,
// the error taxonomy, and the configuration structs of every stage.
package types

import "time"

// Unspecified is stored in Name and Position when the extractor could not
// find a value. Every other optional field is left empty instead.
const Unspecified = "unspecified"

// CandidateRecord is one parsed candidate signal. Records are only ever
// built by the extractor from non-empty text.
type CandidateRecord struct {
	// Name is the candidate name, or Unspecified.
	Name string `json:"name" yaml:"name"`

	// Position is the role the candidate is looking for, or Unspecified.
	Position string `json:"position" yaml:"position"`

	// Level is one of the seniority vocabulary (see Levels), or empty.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// SalaryExpectation is free-form; currency and period are not normalized.
	SalaryExpectation string `json:"salary_expectation,omitempty" yaml:"salary_expectation,omitempty"`

	// Skills keeps source order. Duplicates are possible.
	Skills []string `json:"skills,omitempty" yaml:"skills,omitempty"`

	Experience string `json:"experience,omitempty" yaml:"experience,omitempty"`

	// Contacts joins every matched handle, email and phone with ", ".
	Contacts string `json:"contacts,omitempty" yaml:"contacts,omitempty"`

	// SourceLink is a deep link back to the originating message.
	SourceLink string `json:"source_link" yaml:"source_link"`

	// CapturedAt is the message timestamp, or the ingestion time when the
	// source carried none.
	CapturedAt time.Time `json:"captured_at" yaml:"captured_at"`

	// RawText is the unmodified input the record was parsed from.
	RawText string `json:"raw_text" yaml:"raw_text"`
}

// Levels is the seniority vocabulary in canonical spelling.
var Levels = []string{"Intern", "Trainee", "Junior", "Middle", "Senior", "Lead"}

// ChannelMessage is one message as returned by a channel reader.
type ChannelMessage struct {
	// ID is the message number within the channel; 0 when unknown.
	ID int64 `json:"id" yaml:"id"`

	Text string `json:"text" yaml:"text"`

	// Timestamp is zero when the source did not provide one.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Filters narrows a channel search. Empty strings disable a filter.
type Filters struct {
	Profession   string `json:"profession,omitempty" yaml:"profession,omitempty"`
	Level        string `json:"level,omitempty" yaml:"level,omitempty"`
	Location     string `json:"location,omitempty" yaml:"location,omitempty"`
	ForceRefresh bool   `json:"force_refresh,omitempty" yaml:"force_refresh,omitempty"`
}

// IsZero reports whether no narrowing filter is set. ForceRefresh does not count.
func (f Filters) IsZero() bool {
	return f.Profession == "" && f.Level == "" && f.Location == ""
}
