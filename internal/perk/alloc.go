package perk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

type IDStrategy string

const (
	// MaxPlusOne reissues the id of a deleted max record. It is the default
	// because clients of the original service observe that behavior.
	MaxPlusOne IDStrategy = "max-plus-one"
	Monotonic  IDStrategy = "monotonic"
	RandomID   IDStrategy = "random"
)

var ErrUnknownIDStrategy = errors.New("unknown id strategy")

func ParseIDStrategy(s string) (IDStrategy, error) {
	switch IDStrategy(s) {
	case "", MaxPlusOne:
		return MaxPlusOne, nil
	case Monotonic, RandomID:
		return IDStrategy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIDStrategy, s)
}

// allocator picks an id absent from held. Callers hold the store write lock.
type allocator interface {
	next(held map[int64]Perk) int64
}

func newAllocator(s IDStrategy) allocator {
	switch s {
	case Monotonic:
		return &monotonicAlloc{}
	case RandomID:
		return randomAlloc{}
	default:
		return maxPlusOneAlloc{}
	}
}

type maxPlusOneAlloc struct{}

func (maxPlusOneAlloc) next(held map[int64]Perk) int64 {
	return maxID(held) + 1
}

type monotonicAlloc struct {
	last int64
}

func (a *monotonicAlloc) next(held map[int64]Perk) int64 {
	a.last = max(a.last, maxID(held)) + 1
	return a.last
}

type randomAlloc struct{}

func (randomAlloc) next(held map[int64]Perk) int64 {
	for {
		u := uuid.New()
		id := int64(binary.BigEndian.Uint64(u[:8]) & math.MaxInt64)
		if id == 0 {
			continue
		}
		if _, taken := held[id]; !taken {
			return id
		}
	}
}

// maxID returns the largest held id, or 0 when nothing positive is held.
func maxID(held map[int64]Perk) int64 {
	var m int64
	for id := range held {
		if id > m {
			m = id
		}
	}
	return m
}
