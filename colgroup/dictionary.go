package colgroup

import (
	"fmt"
	"slices"

	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/internal/hash"
)

// Dictionary is an immutable table of distinct-valued tuples stored row-major.
type Dictionary struct {
	arity  int
	values []float64
}

// NewDictionary creates a dictionary of len(values)/arity entries.
//
// The values are copied.
//
// Returns:
//   - *Dictionary: The created dictionary
//   - error: ErrInvalidArgument if arity is not positive or len(values) is not a multiple of arity
func NewDictionary(arity int, values []float64) (*Dictionary, error) {
	if arity <= 0 {
		return nil, fmt.Errorf("%w: dictionary arity %d", errs.ErrInvalidArgument, arity)
	}
	if len(values)%arity != 0 {
		return nil, fmt.Errorf("%w: %d dictionary values not a multiple of arity %d",
			errs.ErrShapeMismatch, len(values), arity)
	}

	return &Dictionary{arity: arity, values: slices.Clip(cloneFloats(values))}, nil
}

func emptyDictionary(arity int) *Dictionary {
	return &Dictionary{arity: arity}
}

// Arity returns the tuple width.
func (d *Dictionary) Arity() int { return d.arity }

// NumEntries returns the number of tuples.
func (d *Dictionary) NumEntries() int {
	if d.arity == 0 {
		return 0
	}

	return len(d.values) / d.arity
}

// Entry returns tuple i. The slice aliases the dictionary and must not be modified.
func (d *Dictionary) Entry(i int) []float64 {
	return d.values[i*d.arity : (i+1)*d.arity]
}

// Value returns column j of tuple i.
func (d *Dictionary) Value(i, j int) float64 {
	return d.values[i*d.arity+j]
}

// Values returns the row-major tuple table. It must not be modified.
func (d *Dictionary) Values() []float64 {
	return d.values
}

// dictBuilder extends a dictionary during one encode call.
//
// The base dictionary's values are clipped, so the first append copies and the
// shared dictionary is never written to.
type dictBuilder struct {
	arity  int
	values []float64
	index  map[uint64][]int
	hasher *hash.TupleHasher
}

func (d *Dictionary) builder() *dictBuilder {
	b := &dictBuilder{
		arity:  d.arity,
		values: slices.Clip(d.values),
		index:  make(map[uint64][]int, d.NumEntries()),
		hasher: hash.NewTupleHasher(),
	}
	for i := 0; i < d.NumEntries(); i++ {
		h := b.hasher.Sum(d.Entry(i))
		b.index[h] = append(b.index[h], i)
	}

	return b
}

func (b *dictBuilder) numEntries() int {
	if b.arity == 0 {
		return 0
	}

	return len(b.values) / b.arity
}

// lookup returns the first entry bit-identical to tuple.
func (b *dictBuilder) lookup(tuple []float64, h uint64) (int, bool) {
	for _, i := range b.index[h] {
		if identicalTuple(b.values[i*b.arity:(i+1)*b.arity], tuple) {
			return i, true
		}
	}

	return -1, false
}

// add returns the entry for tuple, appending a new one if it is absent.
func (b *dictBuilder) add(tuple []float64) int {
	h := b.hasher.Sum(tuple)
	if i, ok := b.lookup(tuple, h); ok {
		return i
	}

	i := b.numEntries()
	b.values = append(b.values, tuple...)
	b.index[h] = append(b.index[h], i)

	return i
}

func (b *dictBuilder) build() *Dictionary {
	return &Dictionary{arity: b.arity, values: slices.Clip(b.values)}
}
