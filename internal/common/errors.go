// Package common defines shared constants and sentinel errors used across
// the CargoDesk server, CLI and HTTP layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Backup / restore errors.
	ErrMalformedArchive         = errors.New("malformed archive")
	ErrInvalidSnapshotFormat    = errors.New("invalid snapshot format")
	ErrRestoreTransactionFailed = errors.New("restore transaction failed")
	ErrStoreUnavailable         = errors.New("store unavailable")
	ErrImportInProgress         = errors.New("another import is in progress")
	ErrStoreNotEmpty            = errors.New("store is not empty")

	// Auth errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrInvalidToken   = errors.New("invalid token")
)
