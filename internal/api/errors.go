package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thesavant42/dexsome/internal/models"
)

var (
	// ErrNetworkFailure is returned when a request fails or the API answers with a non-success status
	ErrNetworkFailure = errors.New("network failure")

	// ErrMalformedRecord is returned when a response is missing required fields
	ErrMalformedRecord = models.ErrMalformedRecord
)

// FetchFailure records why a single identifier could not be resolved.
// Every FetchFailure matches ErrNetworkFailure, including malformed responses.
type FetchFailure struct {
	Identifier string
	Cause      error
}

func (f *FetchFailure) Error() string {
	return fmt.Sprintf("fetch %s: %v", f.Identifier, f.Cause)
}

func (f *FetchFailure) Unwrap() error {
	return f.Cause
}

// Is makes a malformed record count as a network failure for its identifier
func (f *FetchFailure) Is(target error) bool {
	return target == ErrNetworkFailure
}

// BatchError is returned when at least one fetch in a batch failed.
// Batches before Batch resolved completely; later batches were not started.
type BatchError struct {
	Batch    int // zero-based index of the failed batch
	Failures []*FetchFailure
}

func (e *BatchError) Error() string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.Identifier
	}
	return fmt.Sprintf("batch %d: %d of its fetches failed (%s)", e.Batch, len(e.Failures), strings.Join(ids, ", "))
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// FailedIdentifiers lists the identifiers that need to be retried
func (e *BatchError) FailedIdentifiers() []string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.Identifier
	}
	return ids
}
