package model

import "errors"

// Sentinel errors returned by repositories and core services. Handlers map
// these onto HTTP status codes; anything else is treated as a storage failure.
var (
	// ErrAlbumNotFound is returned when an operation references an album
	// that does not exist in the catalog.
	ErrAlbumNotFound = errors.New("album not found")

	// ErrSessionNotFound is returned when a play session id does not exist.
	ErrSessionNotFound = errors.New("play session not found")

	// ErrBarcodeConflict is returned when an album is created with a barcode
	// already used by another album.
	ErrBarcodeConflict = errors.New("barcode already in use")

	// ErrAlreadyPlaying is returned when a session start is requested for an
	// album that already has an open session.
	ErrAlreadyPlaying = errors.New("album already has an open play session")

	// ErrNoOpenSession is returned when a session finish is requested for an
	// album with no open session.
	ErrNoOpenSession = errors.New("no open play session for album")

	// ErrMalformedTimestamp is returned when a caller-supplied timestamp is
	// not valid RFC3339. Write-path validation is strict; malformed stored
	// timestamps on the read path degrade to a display label instead.
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrInvalidInput is returned when a required field is missing or empty.
	ErrInvalidInput = errors.New("invalid input")
)
