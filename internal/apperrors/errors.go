package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates a debit larger than the current balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidTransition indicates a status change that the request lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrAlreadyResolved indicates a decision on a request that already reached a terminal status.
// Replayed operator decisions map here and must never re-mutate a balance.
var ErrAlreadyResolved = errors.New("request already resolved")

// ErrUnsupportedJurisdiction indicates the bonus policy has no entry for a country code.
var ErrUnsupportedJurisdiction = errors.New("unsupported jurisdiction")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the authenticated user lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict with current resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
