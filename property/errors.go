// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package property

import (
	"errors"
	"fmt"
)

// Sentinel errors for the property model, as a flat errors.New
// var-block.
var (
	ErrInvalidPropertyValue = errors.New("property: value outside kind's domain")
	ErrPermanentConflict    = errors.New("property: permanent property already set to a different value")
	ErrUnknownKind          = errors.New("property: unrecognised kind")
)

// InvalidValueError names the offending element id, kind, and value
// that failed domain validation.
type InvalidValueError struct {
	ElementID string
	Kind      Kind
	Value     any
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("property: %s on %q: value %v outside domain", e.Kind, e.ElementID, e.Value)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalidPropertyValue }

// PermanentConflictError names the offending element id and kind whose
// permanent value was about to be overridden with a different value.
type PermanentConflictError struct {
	ElementID string
	Kind      Kind
	Existing  any
	Attempted any
}

func (e *PermanentConflictError) Error() string {
	return fmt.Sprintf("property: %s on %q is permanently %v, cannot set to %v", e.Kind, e.ElementID, e.Existing, e.Attempted)
}

func (e *PermanentConflictError) Unwrap() error { return ErrPermanentConflict }
