package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidParameters marks a request that must not reach the search core.
	ErrInvalidParameters = errors.New("invalid search parameters: enter at least 2 compounds or at least 1 enzyme")
	// ErrUnknownCompound marks a compound ID absent from the reference data.
	ErrUnknownCompound = errors.New("unknown compound")
	// ErrUnknownEnzyme marks an EC number absent from the reference data.
	ErrUnknownEnzyme = errors.New("unknown enzyme")
	// ErrSearchTimeout is returned when a search exceeds its deadline.
	ErrSearchTimeout = errors.New("search timed out")
	// ErrNotFound is returned by lookups for missing reactions, compounds or enzymes.
	ErrNotFound = errors.New("not found")
	// ErrNotReady is returned before any reference data has been loaded.
	ErrNotReady = errors.New("reference data not loaded")
)

// ValidationError lists per-field problems with a search request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidParameters.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (%s)", ErrInvalidParameters.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidParameters
}
