// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package property

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBagSetAndGet(t *testing.T) {
	require := require.New(t)

	b := NewBag("v1")
	_, ok := b.Get(ParallelismKind)
	require.False(ok)

	require.NoError(b.Set(ParallelismKind, 4))
	v, ok := b.Get(ParallelismKind)
	require.True(ok)
	require.Equal(4, v)
}

func TestBagInvalidDomain(t *testing.T) {
	require := require.New(t)

	b := NewBag("v1")
	err := b.Set(ParallelismKind, 0)
	require.Error(err)
	require.True(errors.Is(err, ErrInvalidPropertyValue))

	err = b.Set(CommunicationPatternKind, "Shuffle")
	require.Error(err)
	require.True(errors.Is(err, ErrInvalidPropertyValue))
}

func TestBagPermanentConflict(t *testing.T) {
	require := require.New(t)

	b := NewBag("e1")
	require.NoError(b.SetPermanent(DataPersistenceKind, Discard))

	// identical re-assertion is fine
	require.NoError(b.SetPermanent(DataPersistenceKind, Discard))
	require.NoError(b.Set(DataPersistenceKind, Discard))

	// conflicting value fails, whether via Set or SetPermanent
	err := b.Set(DataPersistenceKind, Keep)
	require.Error(err)
	require.True(errors.Is(err, ErrPermanentConflict))

	err = b.SetPermanent(DataPersistenceKind, Keep)
	require.Error(err)
	require.True(errors.Is(err, ErrPermanentConflict))

	var conflict *PermanentConflictError
	require.True(errors.As(err, &conflict))
	require.Equal("e1", conflict.ElementID)
	require.Equal(DataPersistenceKind, conflict.Kind)
}

func TestBagCopyToPreservesPermanence(t *testing.T) {
	require := require.New(t)

	src := NewBag("src")
	require.NoError(src.Set(ParallelismKind, 2))
	require.NoError(src.SetPermanent(DataStoreKind, SerializedMemory))

	dst := NewBag("dst")
	require.NoError(src.CopyTo(dst))

	v, ok := dst.Get(ParallelismKind)
	require.True(ok)
	require.Equal(2, v)
	require.True(dst.IsPermanent(DataStoreKind))

	// the permanent marker carries over: a conflicting overwrite fails
	err := dst.Set(DataStoreKind, Memory)
	require.Error(err)
	require.True(errors.Is(err, ErrPermanentConflict))
}

func TestBagShuffleDistributionDomain(t *testing.T) {
	require := require.New(t)

	b := NewBag("mcv->abv")
	dist := ShuffleDistributionValue{
		OriginalParallelism: 4,
		Ranges: map[int]KeyRange{
			0: {Low: 0, High: 1},
			1: {Low: 2, High: 3},
		},
	}
	require.NoError(b.SetPermanent(ShuffleDistributionKind, dist))

	got, ok := b.Get(ShuffleDistributionKind)
	require.True(ok)
	require.Equal(dist, got)

	require.Error(b.Set(ShuffleDistributionKind, "not-a-distribution"))
}
