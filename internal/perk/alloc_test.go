package perk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDStrategy(t *testing.T) {
	cases := map[string]IDStrategy{
		"":             MaxPlusOne,
		"max-plus-one": MaxPlusOne,
		"monotonic":    Monotonic,
		"random":       RandomID,
	}
	for in, want := range cases {
		got, err := ParseIDStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseIDStrategy("uuid")
	assert.ErrorIs(t, err, ErrUnknownIDStrategy)
}

func TestMonotonic_NeverReissues(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(Monotonic)

	a, err := s.Create(ctx, Perk{Name: "a"})
	require.NoError(t, err)
	b, err := s.Create(ctx, Perk{Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, []int64{a.ID, b.ID})

	_, err = s.Delete(ctx, b.ID)
	require.NoError(t, err)

	c, err := s.Create(ctx, Perk{Name: "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
}

func TestMonotonic_RespectsSeededIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(Monotonic)

	_, err := s.Load(ctx, []Perk{{ID: 10, Name: "seeded"}})
	require.NoError(t, err)

	p, err := s.Create(ctx, Perk{Name: "runtime"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.ID)
}

func TestRandomID_AvoidsHeldIDs(t *testing.T) {
	held := map[int64]Perk{1: {ID: 1}, 2: {ID: 2}}
	a := newAllocator(RandomID)

	for i := 0; i < 100; i++ {
		id := a.next(held)
		assert.Positive(t, id)
		assert.NotContains(t, held, id)
		held[id] = Perk{ID: id}
	}
}

func TestMaxID_IgnoresNegatives(t *testing.T) {
	assert.Equal(t, int64(0), maxID(map[int64]Perk{}))
	assert.Equal(t, int64(0), maxID(map[int64]Perk{-4: {}}))
	assert.Equal(t, int64(9), maxID(map[int64]Perk{-4: {}, 9: {}, 3: {}}))
}
