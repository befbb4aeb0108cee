// Package colidx provides the immutable, ordered set of column indexes owned by a column group.
//
// A Set is created once and never mutated; operations that change membership
// (Shift, Combine) return a new Set. Sets with identical index sequences are
// interchangeable, compare them with Equal.
//
// A nil *Set is a valid receiver and represents an absent mapping: Size
// returns 0 and All yields nothing.
package colidx

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/cla/errs"
)

// Set is an immutable, strictly increasing sequence of non-negative column indexes.
type Set struct {
	ids []int
}

// New creates a Set from the given column indexes.
//
// The indexes must be non-negative and strictly increasing, which also rules
// out duplicates. The input slice is copied.
//
// Returns:
//   - *Set: The created set
//   - error: ErrNegativeColumn, ErrDuplicateColumn or ErrUnsortedColumns on malformed input
func New(ids ...int) (*Set, error) {
	if err := validate(ids); err != nil {
		return nil, err
	}

	return &Set{ids: slices.Clone(ids)}, nil
}

// MustNew is like New but panics on malformed input. Intended for tests and constants.
func MustNew(ids ...int) *Set {
	s, err := New(ids...)
	if err != nil {
		panic(err)
	}

	return s
}

// Range creates the Set [start, end).
func Range(start, end int) (*Set, error) {
	if start < 0 {
		return nil, fmt.Errorf("%w: range start %d", errs.ErrNegativeColumn, start)
	}
	if end < start {
		return nil, fmt.Errorf("%w: range [%d, %d)", errs.ErrUnsortedColumns, start, end)
	}

	ids := make([]int, end-start)
	for i := range ids {
		ids[i] = start + i
	}

	return &Set{ids: ids}, nil
}

// Identity creates the Set [0, n).
func Identity(n int) *Set {
	s, err := Range(0, max(n, 0))
	if err != nil {
		panic(err) // unreachable for n >= 0
	}

	return s
}

func validate(ids []int) error {
	for i, id := range ids {
		if id < 0 {
			return fmt.Errorf("%w: %d at position %d", errs.ErrNegativeColumn, id, i)
		}
		if i == 0 {
			continue
		}

		prev := ids[i-1]
		if id == prev {
			return fmt.Errorf("%w: %d at position %d", errs.ErrDuplicateColumn, id, i)
		}
		if id < prev {
			return fmt.Errorf("%w: %d follows %d at position %d", errs.ErrUnsortedColumns, id, prev, i)
		}
	}

	return nil
}

// Size returns the number of columns in the set.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}

	return len(s.ids)
}

// Get returns the column index at position i. Panics if i is out of range.
func (s *Set) Get(i int) int {
	return s.ids[i]
}

// All returns an iterator over (position, column) pairs in ascending order.
func (s *Set) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if s == nil {
			return
		}
		for i, id := range s.ids {
			if !yield(i, id) {
				return
			}
		}
	}
}

// Position returns the local offset of col within the set.
func (s *Set) Position(col int) (int, bool) {
	if s == nil {
		return -1, false
	}

	pos, found := slices.BinarySearch(s.ids, col)
	if !found {
		return -1, false
	}

	return pos, true
}

// Contains reports whether col belongs to the set.
func (s *Set) Contains(col int) bool {
	_, ok := s.Position(col)
	return ok
}

// Max returns the largest column index, or -1 for an empty set.
func (s *Set) Max() int {
	if s.Size() == 0 {
		return -1
	}

	return s.ids[len(s.ids)-1]
}

// Slice returns a copy of the column indexes.
func (s *Set) Slice() []int {
	if s == nil {
		return nil
	}

	return slices.Clone(s.ids)
}

// Equal reports whether both sets hold the same index sequence.
func (s *Set) Equal(other *Set) bool {
	if s.Size() != other.Size() {
		return false
	}
	if s.Size() == 0 {
		return true
	}

	return slices.Equal(s.ids, other.ids)
}

// Shift returns a new set with offset added to every index.
func (s *Set) Shift(offset int) (*Set, error) {
	ids := make([]int, s.Size())
	for i, id := range s.All() {
		ids[i] = id + offset
	}

	return New(ids...)
}

// Combine returns the union of two disjoint sets.
//
// Returns ErrDuplicateColumn if the sets share a column.
func (s *Set) Combine(other *Set) (*Set, error) {
	ids := make([]int, 0, s.Size()+other.Size())
	i, j := 0, 0
	for i < s.Size() && j < other.Size() {
		a, b := s.ids[i], other.ids[j]
		switch {
		case a < b:
			ids = append(ids, a)
			i++
		case b < a:
			ids = append(ids, b)
			j++
		default:
			return nil, fmt.Errorf("%w: %d present in both sets", errs.ErrDuplicateColumn, a)
		}
	}
	for ; i < s.Size(); i++ {
		ids = append(ids, s.ids[i])
	}
	for ; j < other.Size(); j++ {
		ids = append(ids, other.ids[j])
	}

	return &Set{ids: ids}, nil
}

func (s *Set) String() string {
	if s == nil {
		return "<nil>"
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for i, id := range s.ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(id))
	}
	sb.WriteByte(']')

	return sb.String()
}
