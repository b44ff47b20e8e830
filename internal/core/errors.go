package core

import "errors"

var (
	// ErrInvalidSignature means the processor reported the webhook signature
	// as not verified. It is a negative result, not a transport failure, and
	// maps to a client error at the HTTP boundary.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrCaptureShape means a capture response did not contain the expected
	// purchase_units/payments/captures nesting.
	ErrCaptureShape = errors.New("unexpected capture structure")
)
