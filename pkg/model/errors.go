package model

import "errors"

var (
	// ErrConfigMissing marks a run aborted before any network call because a
	// required configuration value was absent.
	ErrConfigMissing = errors.New("required configuration missing")

	// ErrSourceUnavailable marks a fatal failure talking to the flag source:
	// network error, authentication failure or a malformed response envelope.
	ErrSourceUnavailable = errors.New("flag source unavailable")
)
