package model

import "errors"

// Sentinel errors returned by services. Transport status codes are assigned
// only at the HTTP handler edge.
var (
	// ErrNotFound covers both a missing record and a record owned by a
	// different user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")

	ErrExtractionFailed = errors.New("failed to read DICOM file")

	// ErrFileMissing marks drift between the database and the object store:
	// the record exists but its backing bytes do not.
	ErrFileMissing = errors.New("backing file missing")

	ErrDeletionFailed = errors.New("failed to delete file")
)
