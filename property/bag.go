// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package property

import (
	"fmt"
	"reflect"
	"sync"
)

type entry struct {
	value     any
	permanent bool
}

// Bag is a mapping from property kind to a value drawn from that
// kind's closed domain. At most one value is stored per kind. A value
// may be marked permanent, after which it can only be "set" again
// with an identical value; anything else is a PermanentConflict.
type Bag struct {
	// ownerID is the vertex/edge id this bag belongs to, used only for
	// diagnostics in returned errors.
	ownerID string

	mu      sync.RWMutex
	entries map[Kind]entry
}

// NewBag returns an empty bag owned by the given element id.
func NewBag(ownerID string) *Bag {
	return &Bag{ownerID: ownerID, entries: make(map[Kind]entry)}
}

// Get looks up the value of kind, returning (value, true) if present
// or (nil, false) if absent.
func (b *Bag) Get(kind Kind) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entries[kind]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// IsPermanent reports whether kind is currently set permanently.
func (b *Bag) IsPermanent(kind Kind) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.entries[kind].permanent
}

// Set stores value under kind. If kind is already permanent with a
// different value, it fails with PermanentConflictError; with an
// identical value it is a no-op success. Otherwise it overwrites
// whatever was there (permanent or not is untouched by a plain Set;
// only SetPermanent can mark a kind permanent).
func (b *Bag) Set(kind Kind, value any) error {
	return b.set(kind, value, false)
}

// SetPermanent stores value under kind and marks it permanent. A
// later Set or SetPermanent with a different value fails with
// PermanentConflictError; with the same value it is a no-op success.
func (b *Bag) SetPermanent(kind Kind, value any) error {
	return b.set(kind, value, true)
}

func (b *Bag) set(kind Kind, value any, permanent bool) error {
	if err := validate(kind, value); err != nil {
		return &InvalidValueError{ElementID: b.ownerID, Kind: kind, Value: value}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	existing, ok := b.entries[kind]
	if ok && existing.permanent {
		if !reflect.DeepEqual(existing.value, value) {
			return &PermanentConflictError{
				ElementID: b.ownerID,
				Kind:      kind,
				Existing:  existing.value,
				Attempted: value,
			}
		}
		// identical re-assertion: keep permanent, nothing to do.
		if permanent {
			b.entries[kind] = entry{value: value, permanent: true}
		}
		return nil
	}

	b.entries[kind] = entry{value: value, permanent: permanent || (ok && existing.permanent)}
	return nil
}

// CopyTo copies every property from b into dst, preserving permanent
// markers. Existing entries in dst for the same kind are overwritten
// subject to the same permanent-conflict rules as Set/SetPermanent.
func (b *Bag) CopyTo(dst *Bag) error {
	b.mu.RLock()
	snapshot := make(map[Kind]entry, len(b.entries))
	for k, e := range b.entries {
		snapshot[k] = e
	}
	b.mu.RUnlock()

	for k, e := range snapshot {
		if err := dst.set(k, e.value, e.permanent); err != nil {
			return err
		}
	}
	return nil
}

// Kinds returns the set of kinds currently present in the bag.
func (b *Bag) Kinds() []Kind {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ks := make([]Kind, 0, len(b.entries))
	for k := range b.entries {
		ks = append(ks, k)
	}
	return ks
}

// validate checks value against kind's closed domain.
func validate(kind Kind, value any) error {
	switch kind {
	case ParallelismKind:
		v, ok := value.(int)
		if !ok || v <= 0 {
			return fmt.Errorf("%w: Parallelism must be a positive int", ErrInvalidPropertyValue)
		}
	case CommunicationPatternKind:
		v, ok := value.(CommunicationPattern)
		if !ok || (v != OneToOne && v != BroadCast && v != Shuffle) {
			return fmt.Errorf("%w: CommunicationPattern", ErrInvalidPropertyValue)
		}
	case DataStoreKind:
		v, ok := value.(DataStore)
		if !ok || (v != Memory && v != SerializedMemory && v != Disk) {
			return fmt.Errorf("%w: DataStore", ErrInvalidPropertyValue)
		}
	case DataPersistenceKind:
		v, ok := value.(DataPersistence)
		if !ok || (v != Keep && v != Discard) {
			return fmt.Errorf("%w: DataPersistence", ErrInvalidPropertyValue)
		}
	case DataFlowKind:
		v, ok := value.(DataFlow)
		if !ok || (v != Push && v != Pull) {
			return fmt.Errorf("%w: DataFlow", ErrInvalidPropertyValue)
		}
	case KeyExtractorKind:
		if _, ok := value.(KeyExtractor); !ok {
			return fmt.Errorf("%w: KeyExtractor", ErrInvalidPropertyValue)
		}
	case EncoderKind, KeyEncoderKind:
		if _, ok := value.(EncoderFactory); !ok {
			return fmt.Errorf("%w: EncoderFactory", ErrInvalidPropertyValue)
		}
	case DecoderKind, KeyDecoderKind:
		if _, ok := value.(DecoderFactory); !ok {
			return fmt.Errorf("%w: DecoderFactory", ErrInvalidPropertyValue)
		}
	case AdditionalOutputTagKind, DuplicateEdgeGroupKind:
		v, ok := value.(string)
		if !ok || v == "" {
			return fmt.Errorf("%w: non-empty string", ErrInvalidPropertyValue)
		}
	case MetricCollectionKind:
		v, ok := value.(int)
		if !ok || v <= 0 {
			return fmt.Errorf("%w: MetricCollection must be a positive int", ErrInvalidPropertyValue)
		}
	case ShuffleDistributionKind:
		if _, ok := value.(ShuffleDistributionValue); !ok {
			return fmt.Errorf("%w: ShuffleDistributionValue", ErrInvalidPropertyValue)
		}
	case OneToOneDistributionKind:
		if _, ok := value.(OneToOneDistributionValue); !ok {
			return fmt.Errorf("%w: OneToOneDistributionValue", ErrInvalidPropertyValue)
		}
	case ResourceSlotKind:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: ResourceSlot must be a bool", ErrInvalidPropertyValue)
		}
	default:
		return ErrUnknownKind
	}
	return nil
}
