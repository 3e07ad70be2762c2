package model

import "errors"

// ErrCheckpointNotFound is returned when no scan checkpoint has been persisted.
var ErrCheckpointNotFound = errors.New("checkpoint not found")
