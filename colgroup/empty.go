package colgroup

import (
	"fmt"

	"github.com/arloliu/cla/block"
	"github.com/arloliu/cla/colidx"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
	"github.com/arloliu/cla/internal/hash"
)

// Empty is a column group whose cells are all zero.
type Empty struct {
	cols *colidx.Set
	rows int
}

var _ ColGroup = (*Empty)(nil)

// NewEmpty creates a row-agnostic all-zero group over cols.
func NewEmpty(cols *colidx.Set) (*Empty, error) {
	if err := checkArity(cols, cols.Size(), "columns"); err != nil {
		return nil, err
	}

	return &Empty{cols: cols}, nil
}

// NewEmptyWithRows creates an all-zero group over rows rows.
func NewEmptyWithRows(cols *colidx.Set, rows int) (*Empty, error) {
	if rows < 0 {
		return nil, fmt.Errorf("%w: negative row count %d", errs.ErrInvalidArgument, rows)
	}

	g, err := NewEmpty(cols)
	if err != nil {
		return nil, err
	}
	g.rows = rows

	return g, nil
}

func (g *Empty) Type() format.GroupType { return format.GroupEmpty }
func (g *Empty) Columns() *colidx.Set   { return g.cols }
func (g *Empty) Arity() int             { return g.cols.Size() }
func (g *Empty) NumRows() int           { return g.rows }
func (g *Empty) sealed()                {}

func (g *Empty) Get(int, int) float64 { return 0 }

func (g *Empty) DecodeRow(_ int, dst []float64) {
	clear(dst[:g.Arity()])
}

func (g *Empty) Scheme() Scheme {
	return emptyScheme{cols: g.cols}
}

// emptyScheme matches all-zero rows. A block with non-zero rows is encoded as
// a zero-baseline Const carrying those rows as overrides.
type emptyScheme struct {
	cols *colidx.Set
}

func (s emptyScheme) Type() format.GroupType { return format.GroupEmpty }
func (s emptyScheme) Columns() *colidx.Set   { return s.cols }
func (s emptyScheme) Arity() int             { return s.cols.Size() }

func (s emptyScheme) zeros() constScheme {
	return constScheme{cols: s.cols, values: make([]float64, s.cols.Size())}
}

func (s emptyScheme) Encode(b block.Block, cols *colidx.Set) (ColGroup, error) {
	g, err := s.zeros().Encode(b, cols)
	if err != nil {
		return nil, err
	}

	c, _ := g.(*Const)
	if c.NumOverrides() == 0 {
		return &Empty{cols: s.cols, rows: c.rows}, nil
	}

	return c, nil
}

func (s emptyScheme) Update(b block.Block, cols *colidx.Set) (Scheme, error) {
	phys, err := resolveColumns(s.cols, b, cols)
	if err != nil {
		return nil, err
	}

	return widenToSDC(s, make([]float64, s.cols.Size()), b, phys), nil
}

func (s emptyScheme) Fingerprint() uint64 {
	return hash.NewDigest().
		Int(int(format.GroupEmpty)).
		Ints(s.cols.Slice()).
		Sum64()
}
