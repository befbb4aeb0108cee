package colgroup

import (
	"fmt"
	"math"

	"github.com/arloliu/cla/errs"
)

// Mapping is an immutable row-to-dictionary-entry map.
//
// The narrowest unsigned width that fits the entry count is used: one byte
// up to 256 entries, two bytes up to 65536, four bytes beyond.
type Mapping struct {
	bound int // exclusive upper bound on entries
	u8    []uint8
	u16   []uint16
	u32   []uint32
}

// NewMapping creates a mapping over entries, each of which must lie in [0, bound).
//
// Returns:
//   - *Mapping: The created mapping
//   - error: ErrInvalidArgument if an entry is out of range
func NewMapping(entries []int, bound int) (*Mapping, error) {
	if bound < 0 || int64(bound) > math.MaxUint32+1 {
		return nil, fmt.Errorf("%w: mapping bound %d", errs.ErrInvalidArgument, bound)
	}
	for i, e := range entries {
		if e < 0 || e >= bound {
			return nil, fmt.Errorf("%w: entry %d at row %d outside [0, %d)", errs.ErrInvalidArgument, e, i, bound)
		}
	}

	m := &Mapping{bound: bound}
	switch MappingWidth(bound) {
	case 1:
		m.u8 = make([]uint8, len(entries))
		for i, e := range entries {
			m.u8[i] = uint8(e)
		}
	case 2:
		m.u16 = make([]uint16, len(entries))
		for i, e := range entries {
			m.u16[i] = uint16(e)
		}
	default:
		m.u32 = make([]uint32, len(entries))
		for i, e := range entries {
			m.u32[i] = uint32(e)
		}
	}

	return m, nil
}

// MappingWidth returns the byte width used for a mapping with bound entries.
func MappingWidth(bound int) int {
	switch {
	case bound <= 1<<8:
		return 1
	case bound <= 1<<16:
		return 2
	default:
		return 4
	}
}

// Len returns the number of mapped rows.
func (m *Mapping) Len() int {
	switch {
	case m.u8 != nil:
		return len(m.u8)
	case m.u16 != nil:
		return len(m.u16)
	default:
		return len(m.u32)
	}
}

// Bound returns the exclusive upper bound on entries.
func (m *Mapping) Bound() int { return m.bound }

// Width returns the byte width of one mapped entry.
func (m *Mapping) Width() int {
	return MappingWidth(m.bound)
}

// Get returns the entry of row i.
func (m *Mapping) Get(i int) int {
	switch {
	case m.u8 != nil:
		return int(m.u8[i])
	case m.u16 != nil:
		return int(m.u16[i])
	default:
		return int(m.u32[i])
	}
}

// Entries returns a copy of the mapping as ints.
func (m *Mapping) Entries() []int {
	out := make([]int, m.Len())
	for i := range out {
		out[i] = m.Get(i)
	}

	return out
}
