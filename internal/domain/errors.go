package domain

import "errors"

// Sentinel errors shared across usecases and adapters
// Wrap with fmt.Errorf("...: %w", err) to add context; match with errors.Is
var (
	// ErrRateSourceUnavailable means every per-base rate request failed and no
	// rate table could be built at all. Retryable from the caller's side; a
	// snapshot is never pinned without rates.
	ErrRateSourceUnavailable = errors.New("rate source unavailable")

	// ErrMalformedRateMap means a rate table broke the self-pair invariant or
	// carries a non-positive rate. This is a pinning defect, not a runtime
	// condition, and must surface loudly instead of corrupting totals.
	ErrMalformedRateMap = errors.New("malformed rate map")

	ErrNotFound       = errors.New("not found")
	ErrDuplicate      = errors.New("already exists")
	ErrSnapshotExists = errors.New("snapshot already exists for month")

	// ErrInUse means a registry row is still referenced, e.g. deleting a
	// currency that accounts are denominated in.
	ErrInUse = errors.New("still in use")
)
