package tui

import "errors"

// ErrMissingBreederService is returned when the breeder service is not provided.
var ErrMissingBreederService = errors.New("tui: breeder service is required")

// ErrMissingRunID is returned when the app is created without a run.
var ErrMissingRunID = errors.New("tui: run id is required")
