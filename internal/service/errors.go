package service

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing referenced aggregate (e.g. artist).
// Surfaced immediately, never retried.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// StorageError reports an object storage failure. Single attempt: the caller
// may retry the whole ingestion call, the core will not.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed for key %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// InferenceError reports a single tier's failure after its local retries.
type InferenceError struct {
	Tier  int
	Model string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed on tier %d (%s): %v", e.Tier, e.Model, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// AllTiersExhaustedError is the terminal cascade failure, carrying the last
// tier's cause. Earlier tiers' causes are logged, not propagated.
type AllTiersExhaustedError struct {
	Tiers     int
	LastTier  int
	LastModel string
	Err       error
}

func (e *AllTiersExhaustedError) Error() string {
	return fmt.Sprintf("all %d model tiers exhausted, last failure on tier %d (%s): %v",
		e.Tiers, e.LastTier, e.LastModel, e.Err)
}

func (e *AllTiersExhaustedError) Unwrap() error { return e.Err }

// EmbeddingError reports an embedding backend failure or a vector of
// unexpected length. Not retried; terminal for the ingestion call.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding generation failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// PersistenceError reports a failed relational commit. Any prior storage
// upload is not rolled back; the orphaned object is logged.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("artwork commit failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// InvalidPromptError marks bad input (e.g. an unresolvable media reference)
// that no amount of retrying or tier escalation can fix. The fallback cascade
// short-circuits on it.
type InvalidPromptError struct {
	Err error
}

func (e *InvalidPromptError) Error() string {
	return fmt.Sprintf("invalid prompt: %v", e.Err)
}

func (e *InvalidPromptError) Unwrap() error { return e.Err }

func (e *InvalidPromptError) NonRetryable() bool { return true }

type nonRetryable interface {
	NonRetryable() bool
}

// IsNonRetryable reports whether err (or anything it wraps) marks itself as
// not worth retrying.
func IsNonRetryable(err error) bool {
	var nr nonRetryable
	if errors.As(err, &nr) {
		return nr.NonRetryable()
	}
	return false
}
