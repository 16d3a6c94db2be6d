package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification (lock contention, a superseded
// active row, or a unique-constraint race). Callers may retry with backoff.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrInternal indicates an unexpected internal failure whose details should not leak.
var ErrInternal = errors.New("internal error")

// ErrInsufficientStock indicates a consumption or decrease request exceeds the
// available FIFO stock for a product. Not retryable without changing the request.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrMissingRate indicates no active FX rate exists between two currencies.
// Fatal inside pricing paths, skippable inside aggregate reporting.
var ErrMissingRate = errors.New("no active exchange rate for currency pair")

// ErrMissingAccount indicates a required chart-of-accounts code is absent.
// This is a bootstrap/configuration error and is never retried.
var ErrMissingAccount = errors.New("required ledger account not found")

// ErrUnbalancedEntry indicates a journal entry draft whose debits and credits
// do not sum equal. Rejected before any row is written.
var ErrUnbalancedEntry = errors.New("journal entry debits and credits do not balance")
