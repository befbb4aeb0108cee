// Package colgroup implements compressed column groups and their compression schemes.
//
// A column group covers a fixed, immutable set of matrix columns across all
// rows and stores them under one encoding. The variant set is closed:
//
//   - Empty: every cell is zero
//   - Const: one baseline tuple shared by all rows, with optional per-row overrides
//   - RLE: runs of identical non-zero tuples
//   - OLE: per-tuple lists of row offsets
//   - DDC: dense dictionary coding, one dictionary entry per row
//   - SDC: sparse dictionary coding around a default tuple
//   - Uncompressed: raw row-major values
//
// # Compression Schemes
//
// Every group exposes a Scheme through Scheme(). A scheme re-encodes new row
// data into the group's encoding family without decompressing the group:
//
//	g, _ := colgroup.NewConst(colidx.MustNew(1, 3, 5), []float64{1.1, 1.2, 1.3})
//	s := g.Scheme()
//	out, err := s.Encode(newRows, nil)
//
// Encode is total over well-formed input. Rows that match the established
// pattern cost nothing extra; rows that do not are layered on top as
// overrides, new dictionary entries or new runs, so the result always
// reconstructs every cell exactly.
//
// Encode validates its arguments in a fixed order:
//  1. a column mapping whose length differs from the arity fails with ErrArityMismatch,
//     even when the block is nil
//  2. a nil block fails with ErrNilInput
//  3. mapped columns outside the block fail with ErrColumnOutOfRange
//
// # Thread Safety
//
// Groups and schemes are immutable. Scheme() may be called concurrently, and
// one scheme may encode many blocks concurrently; all working state is local
// to each call.
package colgroup

import (
	"fmt"
	"math"

	"github.com/arloliu/cla/block"
	"github.com/arloliu/cla/colidx"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
	"github.com/arloliu/cla/internal/pool"
)

// ColGroup is a compressed representation of a set of columns.
type ColGroup interface {
	// Type returns the encoding variant.
	Type() format.GroupType

	// Columns returns the columns the group covers.
	Columns() *colidx.Set

	// Arity returns the number of columns.
	Arity() int

	// NumRows returns the number of rows represented.
	//
	// Const and Empty groups created by a planner are row-agnostic and report 0;
	// they reconstruct any non-negative row.
	NumRows() int

	// Get returns the value at row for the j-th logical column.
	Get(row, j int) float64

	// DecodeRow writes the arity values of row into dst.
	DecodeRow(row int, dst []float64)

	// Scheme returns the compression scheme bound to this group.
	Scheme() Scheme

	sealed()
}

// Scheme re-encodes new row data into the encoding family of one column group.
type Scheme interface {
	// Type returns the encoding family.
	Type() format.GroupType

	// Columns returns the logical columns of the owning group.
	Columns() *colidx.Set

	// Arity returns the number of logical columns.
	Arity() int

	// Encode compresses every row of b into a new column group.
	//
	// cols maps logical column j to physical column cols.Get(j) of b; a nil
	// cols uses the scheme's own columns. Columns of b outside the mapping are
	// ignored.
	//
	// Returns:
	//   - ColGroup: A group that reconstructs every row of b at the mapped columns
	//   - error: ErrArityMismatch, ErrNilInput or ErrColumnOutOfRange on a malformed call
	Encode(b block.Block, cols *colidx.Set) (ColGroup, error)

	// Update returns a scheme that encodes b without overrides.
	//
	// The returned scheme may belong to a different family when the current one
	// cannot absorb b by itself; a Const scheme facing deviating rows, for
	// example, becomes an SDC scheme whose default tuple is the old baseline.
	// Validation is identical to Encode.
	Update(b block.Block, cols *colidx.Set) (Scheme, error)

	// Fingerprint returns a hash of the family, columns and payload.
	// Schemes retrieved from the same group have equal fingerprints.
	Fingerprint() uint64
}

// NewScheme creates a scheme of the given family without an owning group from data.
//
// This seeds a planner that has decided on a family but not yet seen rows:
//   - Const and SDC use baseline as the constant/default tuple
//   - Empty, Uncompressed, DDC, RLE and OLE ignore baseline and start empty
//
// Returns:
//   - Scheme: The seeded scheme
//   - error: ErrNilInput for nil cols, ErrArityMismatch for a baseline of the wrong
//     length, ErrUnsupportedGroup for an unknown family
func NewScheme(typ format.GroupType, cols *colidx.Set, baseline []float64) (Scheme, error) {
	if err := checkArity(cols, cols.Size(), "columns"); err != nil {
		return nil, err
	}

	empty := emptyDictionary(cols.Size())

	switch typ {
	case format.GroupEmpty:
		return emptyScheme{cols: cols}, nil
	case format.GroupConst:
		g, err := NewConst(cols, baseline)
		if err != nil {
			return nil, err
		}

		return g.Scheme(), nil
	case format.GroupSDC:
		if len(baseline) != cols.Size() {
			return nil, fmt.Errorf("%w: %d default values for %d columns",
				errs.ErrArityMismatch, len(baseline), cols.Size())
		}

		return sdcScheme{cols: cols, def: cloneFloats(baseline), dict: empty}, nil
	case format.GroupUncompressed:
		return uncompressedScheme{cols: cols}, nil
	case format.GroupDDC:
		return ddcScheme{cols: cols, dict: empty}, nil
	case format.GroupRLE:
		return rleScheme{cols: cols, dict: empty}, nil
	case format.GroupOLE:
		return oleScheme{cols: cols, dict: empty}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedGroup, typ)
	}
}

// ToDense reconstructs rows rows of g into a dense rows×arity block.
func ToDense(g ColGroup, rows int) *block.Dense {
	arity := g.Arity()
	values := make([]float64, rows*arity)
	for r := 0; r < rows; r++ {
		g.DecodeRow(r, values[r*arity:(r+1)*arity])
	}

	return block.MustDense(rows, arity, values)
}

// resolveColumns applies the shared validation order of Encode and Update and
// returns the physical columns to read.
func resolveColumns(own *colidx.Set, b block.Block, cols *colidx.Set) ([]int, error) {
	arity := own.Size()
	if cols != nil && cols.Size() != arity {
		return nil, fmt.Errorf("%w: %d column indexes for scheme of arity %d",
			errs.ErrArityMismatch, cols.Size(), arity)
	}

	if block.IsNil(b) {
		return nil, fmt.Errorf("%w: block", errs.ErrNilInput)
	}

	if cols == nil {
		cols = own
	}

	phys := cols.Slice()
	if err := block.CheckColumns(b, phys); err != nil {
		return nil, err
	}

	return phys, nil
}

// scanRows calls fn with every row of b gathered at phys.
// The tuple passed to fn is reused between calls and must be copied to be retained.
func scanRows(b block.Block, phys []int, fn func(row int, tuple []float64)) {
	tuple, cleanup := pool.GetFloat64Slice(len(phys))
	defer cleanup()

	rows := b.Rows()
	for r := 0; r < rows; r++ {
		b.Gather(r, phys, tuple)
		fn(r, tuple)
	}
}

// equalTuple compares with numeric equality, so 0 matches -0 and NaN matches nothing.
func equalTuple(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func isZeroTuple(t []float64) bool {
	for _, v := range t {
		if v != 0 {
			return false
		}
	}

	return true
}

// identicalTuple compares bit patterns.
func identicalTuple(a, b []float64) bool {
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}

	return true
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}

	out := make([]float64, len(v))
	copy(out, v)

	return out
}

// checkOffsets verifies offsets are strictly increasing within [0, rows).
func checkOffsets(offsets []int, rows int) error {
	if rows < 0 {
		return fmt.Errorf("%w: negative row count %d", errs.ErrInvalidArgument, rows)
	}

	prev := -1
	for i, o := range offsets {
		if o <= prev || o >= rows {
			return fmt.Errorf("%w: offset %d at position %d (rows=%d)", errs.ErrInvalidArgument, o, i, rows)
		}
		prev = o
	}

	return nil
}

func checkArity(cols *colidx.Set, n int, what string) error {
	if cols == nil {
		return fmt.Errorf("%w: columns", errs.ErrNilInput)
	}
	if cols.Size() == 0 {
		return fmt.Errorf("%w: empty column set", errs.ErrInvalidArgument)
	}
	if n != cols.Size() {
		return fmt.Errorf("%w: %d %s for %d columns", errs.ErrArityMismatch, n, what, cols.Size())
	}

	return nil
}
