package model

import "errors"

var (
	// ErrNotFound reports an update or delete against an absent record.
	ErrNotFound = errors.New("record not found")
	// ErrMalformedCursor reports a nextToken that could not be decoded.
	ErrMalformedCursor = errors.New("malformed pagination cursor")
)
