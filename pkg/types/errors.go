// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Failure classes shared by every stage. None of them is fatal to a search:
// each degrades the output (fewer or stale results) instead.
var (
	// ErrSourceUnavailable means a collaborator is missing or could not be reached.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedInput means text was too short or looked like a job posting.
	ErrMalformedInput = errors.New("malformed input")

	// ErrBackendFailure means one search backend failed.
	ErrBackendFailure = errors.New("backend failure")

	// ErrConfigurationMissing means credentials or settings for a required
	// collaborator were not provided.
	ErrConfigurationMissing = errors.New("configuration missing")
)
