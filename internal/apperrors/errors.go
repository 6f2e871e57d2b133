package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConversionInProgress indicates that another currency conversion is
// already running for the same user. Callers may retry once it finishes.
var ErrConversionInProgress = errors.New("conversion already in progress")

// ErrRateUnavailable indicates that the rate provider failed and no
// sufficiently fresh cached rate exists for the requested pair.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrProvider indicates an unsuccessful or malformed response from the
// external rate provider after all retry attempts were exhausted.
var ErrProvider = errors.New("rate provider error")

// ErrAtomicWriteFailed indicates that the all-or-nothing rewrite of the
// user's monetary records failed and was rolled back. Nothing was committed.
var ErrAtomicWriteFailed = errors.New("atomic conversion write failed")

// ErrSameCurrency indicates a conversion request where source and target
// currencies are identical. This is a caller bug, not retryable.
var ErrSameCurrency = errors.New("from and to currencies are the same")

// ErrConfig indicates a fatal configuration problem (e.g. a missing rate
// provider API key), surfaced at startup rather than per request.
var ErrConfig = errors.New("configuration error")
