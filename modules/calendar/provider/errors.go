package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected means the teacher has no usable credentials for the
	// provider. Callers treat it as "skip this source", not as a failure.
	ErrNotConnected = errors.New("provider not connected")

	// ErrNoCalendarLinked means Google is connected but no target calendar
	// has been selected yet.
	ErrNoCalendarLinked = errors.New("no calendar linked")
)

// ProviderError wraps an upstream API failure with the provider and
// operation it happened in.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// FeedFetchError marks a failure to fetch or parse a single iCal feed.
type FeedFetchError struct {
	URL string
	Err error
}

func (e *FeedFetchError) Error() string {
	return fmt.Sprintf("ical feed %s: %v", e.URL, e.Err)
}

func (e *FeedFetchError) Unwrap() error {
	return e.Err
}

// TokenExchangeError marks a failed OAuth authorization-code exchange.
type TokenExchangeError struct {
	Provider string
	Err      error
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("%s token exchange: %v", e.Provider, e.Err)
}

func (e *TokenExchangeError) Unwrap() error {
	return e.Err
}
