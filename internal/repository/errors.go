// Package repository provides the persistence layer for the train
// aggregate and the user directory.  Sentinel values defined here let
// higher layers distinguish failure scenarios without inspecting
// driver-specific errors.
package repository

import "errors"

// ErrTrainNotFound is returned when no train aggregate has been seeded
// yet.  Handlers translate this into an HTTP 404 response.
var ErrTrainNotFound = errors.New("train not found")

// ErrVersionConflict is returned by Commit when the stored train moved
// on since the snapshot was loaded.  The transaction is aborted and the
// caller may retry with a fresh snapshot.
var ErrVersionConflict = errors.New("train version conflict")

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registering an email that is already
// taken.
var ErrEmailExists = errors.New("email already exists")
