package domain

import "errors"

// ErrResourceNotFound is returned when a resource path cannot be resolved by a loader.
var ErrResourceNotFound = errors.New("resource not found")

// ErrParse is returned when a document is not a well-formed matrix set.
var ErrParse = errors.New("parse error")

// ErrWrite is returned when the output location cannot be written.
var ErrWrite = errors.New("write error")

// ErrNonFinite is returned when a NaN or infinite component has to be serialized.
var ErrNonFinite = errors.New("non-finite matrix component")

// ErrInvalidEpsilon is returned for a negative or non-finite matching tolerance.
var ErrInvalidEpsilon = errors.New("invalid epsilon")
