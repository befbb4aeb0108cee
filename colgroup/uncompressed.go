package colgroup

import (
	"fmt"

	"github.com/arloliu/cla/block"
	"github.com/arloliu/cla/colidx"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
	"github.com/arloliu/cla/internal/hash"
)

// Uncompressed is a column group storing every cell row-major.
type Uncompressed struct {
	cols   *colidx.Set
	rows   int
	values []float64
}

var _ ColGroup = (*Uncompressed)(nil)

// NewUncompressed creates a group over rows rows from row-major values (copied).
//
// Returns ErrShapeMismatch unless len(values) == rows*cols.Size().
func NewUncompressed(cols *colidx.Set, rows int, values []float64) (*Uncompressed, error) {
	if err := checkArity(cols, cols.Size(), "columns"); err != nil {
		return nil, err
	}
	if rows < 0 || len(values) != rows*cols.Size() {
		return nil, fmt.Errorf("%w: %d values for %d rows of arity %d",
			errs.ErrShapeMismatch, len(values), rows, cols.Size())
	}

	return &Uncompressed{cols: cols, rows: rows, values: cloneFloats(values)}, nil
}

func (g *Uncompressed) Type() format.GroupType { return format.GroupUncompressed }
func (g *Uncompressed) Columns() *colidx.Set   { return g.cols }
func (g *Uncompressed) Arity() int             { return g.cols.Size() }
func (g *Uncompressed) NumRows() int           { return g.rows }
func (g *Uncompressed) sealed()                {}

// Values returns the row-major cells. It must not be modified.
func (g *Uncompressed) Values() []float64 { return g.values }

func (g *Uncompressed) Get(row, j int) float64 {
	return g.values[row*g.Arity()+j]
}

func (g *Uncompressed) DecodeRow(row int, dst []float64) {
	a := g.Arity()
	copy(dst, g.values[row*a:(row+1)*a])
}

func (g *Uncompressed) Scheme() Scheme {
	return uncompressedScheme{cols: g.cols}
}

// uncompressedScheme accepts every row as is.
type uncompressedScheme struct {
	cols *colidx.Set
}

func (s uncompressedScheme) Type() format.GroupType { return format.GroupUncompressed }
func (s uncompressedScheme) Columns() *colidx.Set   { return s.cols }
func (s uncompressedScheme) Arity() int             { return s.cols.Size() }

func (s uncompressedScheme) Encode(b block.Block, cols *colidx.Set) (ColGroup, error) {
	phys, err := resolveColumns(s.cols, b, cols)
	if err != nil {
		return nil, err
	}

	a := len(phys)
	out := &Uncompressed{cols: s.cols, rows: b.Rows(), values: make([]float64, b.Rows()*a)}
	for r := 0; r < out.rows; r++ {
		b.Gather(r, phys, out.values[r*a:(r+1)*a])
	}

	return out, nil
}

func (s uncompressedScheme) Update(b block.Block, cols *colidx.Set) (Scheme, error) {
	if _, err := resolveColumns(s.cols, b, cols); err != nil {
		return nil, err
	}

	return s, nil
}

func (s uncompressedScheme) Fingerprint() uint64 {
	return hash.NewDigest().
		Int(int(format.GroupUncompressed)).
		Ints(s.cols.Slice()).
		Sum64()
}
