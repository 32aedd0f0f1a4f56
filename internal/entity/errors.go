package entity

import "errors"

var (
	// ErrNotFound is returned by the remote store when the target id does
	// not exist at update/delete time.
	ErrNotFound = errors.New("prospect introuvable")

	// ErrRemoteUnavailable wraps transport and backend failures.
	ErrRemoteUnavailable = errors.New("remote store indisponible")
)
