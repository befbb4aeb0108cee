package block

import (
	"fmt"

	"github.com/arloliu/cla/errs"
)

// Dense is a block backed by one contiguous row-major slice.
type Dense struct {
	rows   int
	cols   int
	values []float64
	nnz    int
}

var _ Block = (*Dense)(nil)

// NewDense creates a dense block over values laid out row-major.
//
// The block takes ownership of values; the caller must not modify the slice afterwards.
//
// Returns:
//   - *Dense: The created block
//   - error: ErrShapeMismatch if len(values) != rows*cols or a dimension is negative
func NewDense(rows, cols int, values []float64) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", errs.ErrShapeMismatch, rows, cols)
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d block", errs.ErrShapeMismatch, len(values), rows, cols)
	}

	return newDense(rows, cols, values), nil
}

// MustDense is like NewDense but panics on a shape mismatch.
func MustDense(rows, cols int, values []float64) *Dense {
	d, err := NewDense(rows, cols, values)
	if err != nil {
		panic(err)
	}

	return d
}

// NewDenseFilled creates a rows×cols dense block with every cell set to v.
func NewDenseFilled(rows, cols int, v float64) *Dense {
	values := make([]float64, rows*cols)
	if v != 0 {
		for i := range values {
			values[i] = v
		}
	}

	return newDense(rows, cols, values)
}

func newDense(rows, cols int, values []float64) *Dense {
	return &Dense{
		rows:   rows,
		cols:   cols,
		values: values,
		nnz:    countNonZeros(values),
	}
}

func (d *Dense) Rows() int { return d.rows }
func (d *Dense) Cols() int { return d.cols }

func (d *Dense) At(row, col int) float64 {
	if uint(row) >= uint(d.rows) || uint(col) >= uint(d.cols) {
		panic(fmt.Sprintf("cell (%d, %d) out of range for %dx%d block", row, col, d.rows, d.cols))
	}

	return d.values[row*d.cols+col]
}

func (d *Dense) Info() Info {
	return Info{
		Layout:     LayoutDense,
		Segments:   1,
		Contiguous: true,
		NonZeros:   d.nnz,
	}
}

func (d *Dense) Gather(row int, cols []int, dst []float64) {
	base := d.values[row*d.cols : (row+1)*d.cols]
	for i, c := range cols {
		dst[i] = base[c]
	}
}

// Row returns the values of row r. The returned slice aliases the block and must not be modified.
func (d *Dense) Row(r int) []float64 {
	return d.values[r*d.cols : (r+1)*d.cols]
}

// Values returns the row-major backing slice. It must not be modified.
func (d *Dense) Values() []float64 {
	return d.values
}
