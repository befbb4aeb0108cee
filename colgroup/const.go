package colgroup

import (
	"fmt"
	"slices"

	"github.com/arloliu/cla/block"
	"github.com/arloliu/cla/colidx"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
	"github.com/arloliu/cla/internal/hash"
)

// Const is a column group whose rows all share one baseline tuple.
//
// Rows that deviate from the baseline are stored as overrides: a sorted list
// of row offsets and, for each, the full tuple of that row.
type Const struct {
	cols      *colidx.Set
	values    []float64
	rows      int
	offsets   []int
	overrides []float64
}

var _ ColGroup = (*Const)(nil)

// NewConst creates a row-agnostic constant group.
//
// Parameters:
//   - cols: The columns covered
//   - values: The baseline tuple, one value per column (copied)
//
// Returns:
//   - *Const: The created group
//   - error: ErrNilInput for nil cols, ErrArityMismatch if len(values) != cols.Size()
func NewConst(cols *colidx.Set, values []float64) (*Const, error) {
	if err := checkArity(cols, len(values), "values"); err != nil {
		return nil, err
	}

	return &Const{cols: cols, values: cloneFloats(values)}, nil
}

// NewConstWithOverrides creates a constant group over rows rows with explicit overrides.
//
// Parameters:
//   - cols: The columns covered
//   - values: The baseline tuple
//   - rows: The number of rows represented
//   - offsets: Strictly increasing rows in [0, rows) that deviate from the baseline
//   - overrides: Row-major tuples for each offset, len(offsets)*arity values
//
// All slices are copied.
func NewConstWithOverrides(cols *colidx.Set, values []float64, rows int, offsets []int, overrides []float64) (*Const, error) {
	if err := checkArity(cols, len(values), "values"); err != nil {
		return nil, err
	}
	if err := checkOffsets(offsets, rows); err != nil {
		return nil, err
	}
	if len(overrides) != len(offsets)*cols.Size() {
		return nil, fmt.Errorf("%w: %d override values for %d offsets of arity %d",
			errs.ErrShapeMismatch, len(overrides), len(offsets), cols.Size())
	}

	return &Const{
		cols:      cols,
		values:    cloneFloats(values),
		rows:      rows,
		offsets:   slices.Clone(offsets),
		overrides: cloneFloats(overrides),
	}, nil
}

func (g *Const) Type() format.GroupType { return format.GroupConst }
func (g *Const) Columns() *colidx.Set   { return g.cols }
func (g *Const) Arity() int             { return g.cols.Size() }
func (g *Const) NumRows() int           { return g.rows }
func (g *Const) sealed()                {}

// Values returns the baseline tuple. It must not be modified.
func (g *Const) Values() []float64 { return g.values }

// Overrides returns the deviating rows and their row-major tuples. The slices must not be modified.
func (g *Const) Overrides() ([]int, []float64) {
	return g.offsets, g.overrides
}

// NumOverrides returns the number of deviating rows.
func (g *Const) NumOverrides() int { return len(g.offsets) }

func (g *Const) Get(row, j int) float64 {
	if i, ok := g.override(row); ok {
		return g.overrides[i*g.Arity()+j]
	}

	return g.values[j]
}

func (g *Const) DecodeRow(row int, dst []float64) {
	if i, ok := g.override(row); ok {
		a := g.Arity()
		copy(dst, g.overrides[i*a:(i+1)*a])

		return
	}
	copy(dst, g.values)
}

func (g *Const) override(row int) (int, bool) {
	if len(g.offsets) == 0 {
		return -1, false
	}

	return slices.BinarySearch(g.offsets, row)
}

func (g *Const) Scheme() Scheme {
	return constScheme{cols: g.cols, values: g.values}
}

// constScheme folds rows into a constant baseline. Deviating rows become overrides.
type constScheme struct {
	cols   *colidx.Set
	values []float64
}

func (s constScheme) Type() format.GroupType { return format.GroupConst }
func (s constScheme) Columns() *colidx.Set   { return s.cols }
func (s constScheme) Arity() int             { return s.cols.Size() }

func (s constScheme) Encode(b block.Block, cols *colidx.Set) (ColGroup, error) {
	phys, err := resolveColumns(s.cols, b, cols)
	if err != nil {
		return nil, err
	}

	out := &Const{cols: s.cols, values: s.values, rows: b.Rows()}
	scanRows(b, phys, func(row int, tuple []float64) {
		if equalTuple(tuple, s.values) {
			return
		}
		out.offsets = append(out.offsets, row)
		out.overrides = append(out.overrides, tuple...)
	})

	return out, nil
}

func (s constScheme) Update(b block.Block, cols *colidx.Set) (Scheme, error) {
	phys, err := resolveColumns(s.cols, b, cols)
	if err != nil {
		return nil, err
	}

	return widenToSDC(s, s.values, b, phys), nil
}

func (s constScheme) Fingerprint() uint64 {
	return hash.NewDigest().
		Int(int(format.GroupConst)).
		Ints(s.cols.Slice()).
		Floats(s.values).
		Sum64()
}

// widenToSDC returns self when every row of b matches base, otherwise an SDC
// scheme with base as the default tuple and the deviating tuples as its dictionary.
func widenToSDC(self Scheme, base []float64, b block.Block, phys []int) Scheme {
	var db *dictBuilder
	scanRows(b, phys, func(_ int, tuple []float64) {
		if equalTuple(tuple, base) {
			return
		}
		if db == nil {
			db = emptyDictionary(len(base)).builder()
		}
		db.add(tuple)
	})

	if db == nil {
		return self
	}

	return sdcScheme{cols: self.Columns(), def: base, dict: db.build()}
}
