// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reshape

import (
	"errors"
	"fmt"

	"github.com/luxfi/skewshape/graphir"
	"github.com/luxfi/skewshape/property"
)

// Sentinel errors for the pass's own failure taxonomy, as a flat
// errors.New var-block.
var (
	ErrMissingRequiredProperty      = errors.New("reshape: required property missing")
	ErrUnsupportedCommunicationPattern = errors.New("reshape: unsupported communication pattern")
	ErrInvalidSampleRate             = errors.New("reshape: sampleRate must satisfy 0 < r <= 1")
	ErrInvalidHashRangeMultiplier    = errors.New("reshape: hashRangeMultiplier must be a positive int")
)

// MissingRequiredPropertyError names the offending vertex/edge id and
// the property kind the pass needed but did not find.
type MissingRequiredPropertyError struct {
	ElementID string
	Kind      property.Kind
}

func (e *MissingRequiredPropertyError) Error() string {
	return fmt.Sprintf("reshape: %s missing required property %s", e.ElementID, e.Kind)
}

func (e *MissingRequiredPropertyError) Unwrap() error { return ErrMissingRequiredProperty }

// UnsupportedCommunicationPatternError names the offending edge and
// the pattern value the pass does not know how to mirror.
type UnsupportedCommunicationPatternError struct {
	EdgeID  graphir.EdgeID
	Pattern property.CommunicationPattern
}

func (e *UnsupportedCommunicationPatternError) Error() string {
	return fmt.Sprintf("reshape: edge %q has unsupported communication pattern %s", e.EdgeID, e.Pattern)
}

func (e *UnsupportedCommunicationPatternError) Unwrap() error {
	return ErrUnsupportedCommunicationPattern
}

func missingProperty(elementID string, kind property.Kind) error {
	return &MissingRequiredPropertyError{ElementID: elementID, Kind: kind}
}
