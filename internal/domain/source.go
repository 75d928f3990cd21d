package domain

import (
	"context"
	"fmt"
	"strings"
)

// ProviderSource fetches the raw provider records from the record store.
type ProviderSource interface {
	FetchRecords(ctx context.Context) (RecordSet, error)
}

// RawSource returns the upstream response body untouched.
type RawSource interface {
	FetchRaw(ctx context.Context) ([]byte, error)
}

// FetchError is a transport failure or non-2xx response from the record store.
type FetchError struct {
	Status  int    // upstream HTTP status; 0 when no response was received
	Details string // truncated upstream body or decode failure
	Err     error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("fetch providers: upstream status %d", e.Status)
	case e.Err != nil:
		return "fetch providers: " + e.Err.Error()
	case e.Details != "":
		return "fetch providers: " + e.Details
	default:
		return "fetch providers failed"
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ConfigurationError lists required settings that are absent. Values are never
// included.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing configuration: " + strings.Join(e.Missing, ", ")
}
