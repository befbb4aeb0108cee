package colgroup

import (
	"fmt"
	"slices"

	"github.com/arloliu/cla/block"
	"github.com/arloliu/cla/colidx"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
	"github.com/arloliu/cla/internal/hash"
	"github.com/arloliu/cla/internal/pool"
)

// SDC is a sparse dictionary coded group.
//
// Most rows hold the default tuple; the rest are listed in offsets and point
// at dictionary entries through the mapping.
type SDC struct {
	cols    *colidx.Set
	rows    int
	def     []float64
	dict    *Dictionary
	offsets []int
	mapping *Mapping
}

var _ ColGroup = (*SDC)(nil)

// NewSDC creates a sparse dictionary coded group over rows rows.
//
// Parameters:
//   - cols: The columns covered
//   - rows: The number of rows represented
//   - def: The default tuple (copied)
//   - dict: Tuples of the non-default rows
//   - offsets: Strictly increasing non-default rows in [0, rows) (copied)
//   - mapping: Dictionary entry of each offset, mapping.Len() == len(offsets)
func NewSDC(cols *colidx.Set, rows int, def []float64, dict *Dictionary, offsets []int, mapping *Mapping) (*SDC, error) {
	if err := checkArity(cols, len(def), "default values"); err != nil {
		return nil, err
	}
	if err := checkDictionary(cols, dict); err != nil {
		return nil, err
	}
	if err := checkOffsets(offsets, rows); err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, fmt.Errorf("%w: mapping", errs.ErrNilInput)
	}
	if mapping.Len() != len(offsets) {
		return nil, fmt.Errorf("%w: %d mapped entries for %d offsets",
			errs.ErrShapeMismatch, mapping.Len(), len(offsets))
	}
	if mapping.Bound() > dict.NumEntries() {
		return nil, fmt.Errorf("%w: mapping bound %d exceeds %d dictionary entries",
			errs.ErrInvalidArgument, mapping.Bound(), dict.NumEntries())
	}

	return &SDC{
		cols:    cols,
		rows:    rows,
		def:     cloneFloats(def),
		dict:    dict,
		offsets: slices.Clone(offsets),
		mapping: mapping,
	}, nil
}

func (g *SDC) Type() format.GroupType { return format.GroupSDC }
func (g *SDC) Columns() *colidx.Set   { return g.cols }
func (g *SDC) Arity() int             { return g.cols.Size() }
func (g *SDC) NumRows() int           { return g.rows }
func (g *SDC) sealed()                {}

// Default returns the default tuple. It must not be modified.
func (g *SDC) Default() []float64 { return g.def }

// Dictionary returns the dictionary of non-default tuples.
func (g *SDC) Dictionary() *Dictionary { return g.dict }

// Offsets returns the non-default rows. The slice must not be modified.
func (g *SDC) Offsets() []int { return g.offsets }

// Mapping returns the dictionary entry of each offset.
func (g *SDC) Mapping() *Mapping { return g.mapping }

func (g *SDC) Get(row, j int) float64 {
	if i, ok := slices.BinarySearch(g.offsets, row); ok {
		return g.dict.Value(g.mapping.Get(i), j)
	}

	return g.def[j]
}

func (g *SDC) DecodeRow(row int, dst []float64) {
	if i, ok := slices.BinarySearch(g.offsets, row); ok {
		copy(dst, g.dict.Entry(g.mapping.Get(i)))
		return
	}
	copy(dst, g.def)
}

func (g *SDC) Scheme() Scheme {
	return sdcScheme{cols: g.cols, def: g.def, dict: g.dict}
}

// sdcScheme skips rows equal to the default tuple and dictionary codes the rest.
type sdcScheme struct {
	cols *colidx.Set
	def  []float64
	dict *Dictionary
}

func (s sdcScheme) Type() format.GroupType { return format.GroupSDC }
func (s sdcScheme) Columns() *colidx.Set   { return s.cols }
func (s sdcScheme) Arity() int             { return s.cols.Size() }

func (s sdcScheme) Encode(b block.Block, cols *colidx.Set) (ColGroup, error) {
	phys, err := resolveColumns(s.cols, b, cols)
	if err != nil {
		return nil, err
	}

	scratch, cleanup := pool.GetIntSlice(b.Rows())
	defer cleanup()
	entries := scratch[:0]

	db := s.dict.builder()
	var offsets []int
	scanRows(b, phys, func(row int, tuple []float64) {
		if equalTuple(tuple, s.def) {
			return
		}
		offsets = append(offsets, row)
		entries = append(entries, db.add(tuple))
	})

	dict := db.build()
	mapping, err := NewMapping(entries, dict.NumEntries())
	if err != nil {
		return nil, err
	}

	return &SDC{
		cols:    s.cols,
		rows:    b.Rows(),
		def:     s.def,
		dict:    dict,
		offsets: offsets,
		mapping: mapping,
	}, nil
}

func (s sdcScheme) Update(b block.Block, cols *colidx.Set) (Scheme, error) {
	phys, err := resolveColumns(s.cols, b, cols)
	if err != nil {
		return nil, err
	}

	db := s.dict.builder()
	scanRows(b, phys, func(_ int, tuple []float64) {
		if !equalTuple(tuple, s.def) {
			db.add(tuple)
		}
	})
	if db.numEntries() == s.dict.NumEntries() {
		return s, nil
	}

	return sdcScheme{cols: s.cols, def: s.def, dict: db.build()}, nil
}

func (s sdcScheme) Fingerprint() uint64 {
	return hash.NewDigest().
		Int(int(format.GroupSDC)).
		Ints(s.cols.Slice()).
		Floats(s.def).
		Floats(s.dict.Values()).
		Sum64()
}
