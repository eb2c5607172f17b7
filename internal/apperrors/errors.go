package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrStaleQuote indicates that the latest quote for a currency is older than the
// configured maximum age and must not be used for settlement.
var ErrStaleQuote = errors.New("currency quote is stale")

// ErrUnauthorized indicates missing or invalid operator credentials.
var ErrUnauthorized = errors.New("unauthorized")
