package services

import (
	"errors"

	"storefront/internal/metrics"
)

var (
	// ErrNotFound means the id or slug does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means a post with the same title already exists.
	ErrDuplicate = errors.New("already exists")
	// ErrValidation is returned by callers that check input before a service call.
	ErrValidation = errors.New("invalid input")
)

var ErrBadCreds = errors.New("invalid email or password")

// ErrEmptyCart is returned by Checkout when there is nothing to check out.
var ErrEmptyCart = errors.New("cart empty")

var outcomes = map[error]string{
	ErrNotFound:  "not_found",
	ErrDuplicate: "duplicate",
	ErrBadCreds:  "bad_creds",
}

func observe(service, op string, err error) {
	metrics.ObserveOp(service, op, metrics.Outcome(err, outcomes))
}
