package waypoint

import "errors"

var (
	// ErrInvalidArgument is returned by New for an empty key, an out of range
	// location or an undefined type.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedRecord is returned when a table row or property list lacks a
	// mandatory field or carries an unparseable value.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrNotFound is returned by key lookups that miss.
	ErrNotFound = errors.New("waypoint not found")
)
