package block

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/arloliu/cla/errs"
)

// Arrow is a block over an Apache Arrow record whose columns are all FLOAT64.
//
// Each Arrow column is a separate buffer, so the layout is reported as
// chunked with one segment per column. Null slots read as zero.
//
// The block retains the record; call Release when done.
type Arrow struct {
	rec     arrow.Record
	columns [][]float64
	nulls   []*array.Float64 // non-nil only for columns holding nulls
	nnz     int
}

var _ Block = (*Arrow)(nil)

// NewArrow wraps rec as a Block.
//
// Returns:
//   - *Arrow: The created block, holding a reference on rec
//   - error: ErrNilInput for a nil record, ErrInvalidArgument for a non-FLOAT64 column
func NewArrow(rec arrow.Record) (*Arrow, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: arrow record", errs.ErrNilInput)
	}

	ncols := int(rec.NumCols())
	a := &Arrow{
		columns: make([][]float64, ncols),
		nulls:   make([]*array.Float64, ncols),
	}

	for i := 0; i < ncols; i++ {
		col := rec.Column(i)
		if col.DataType().ID() != arrow.FLOAT64 {
			return nil, fmt.Errorf("%w: column %d (%s) has type %s, want float64",
				errs.ErrInvalidArgument, i, rec.ColumnName(i), col.DataType())
		}

		f, _ := col.(*array.Float64)
		a.columns[i] = f.Float64Values()
		if f.NullN() > 0 {
			a.nulls[i] = f
		}

		for j, v := range a.columns[i] {
			if v != 0 && (a.nulls[i] == nil || !f.IsNull(j)) {
				a.nnz++
			}
		}
	}

	rec.Retain()
	a.rec = rec

	return a, nil
}

// Release drops the reference on the underlying record.
func (a *Arrow) Release() {
	if a.rec != nil {
		a.rec.Release()
		a.rec = nil
	}
}

func (a *Arrow) Rows() int {
	if len(a.columns) == 0 {
		if a.rec == nil {
			return 0
		}

		return int(a.rec.NumRows())
	}

	return len(a.columns[0])
}

func (a *Arrow) Cols() int { return len(a.columns) }

func (a *Arrow) At(row, col int) float64 {
	if n := a.nulls[col]; n != nil && n.IsNull(row) {
		return 0
	}

	return a.columns[col][row]
}

func (a *Arrow) Info() Info {
	return Info{
		Layout:     LayoutChunked,
		Segments:   len(a.columns),
		Contiguous: len(a.columns) <= 1,
		NonZeros:   a.nnz,
	}
}

func (a *Arrow) Gather(row int, cols []int, dst []float64) {
	for i, c := range cols {
		dst[i] = a.At(row, c)
	}
}
