// Package block provides the layout-agnostic read interface over raw matrix data.
//
// Compression schemes read new rows exclusively through the Block interface,
// so encoding logic is written once and never depends on how a block is
// physically stored. Four adapters are provided:
//
//   - Dense: a single row-major []float64
//   - Chunked: row segments stored in separate slices
//   - Sparse: compressed sparse rows with arbitrary zero padding
//   - Arrow: an Apache Arrow record of FLOAT64 columns
//
// All adapters are immutable after construction and safe for concurrent reads.
package block

import (
	"fmt"
	"reflect"

	"github.com/arloliu/cla/errs"
)

// Layout identifies the physical storage strategy of a Block.
type Layout uint8

const (
	LayoutDense   Layout = 0x1 // LayoutDense is a single contiguous row-major array.
	LayoutChunked Layout = 0x2 // LayoutChunked is dense data split into several segments.
	LayoutSparse  Layout = 0x3 // LayoutSparse stores only non-zero cells.
)

func (l Layout) String() string {
	switch l {
	case LayoutDense:
		return "Dense"
	case LayoutChunked:
		return "Chunked"
	case LayoutSparse:
		return "Sparse"
	default:
		return "Unknown"
	}
}

// Info describes the physical layout of a block.
type Info struct {
	// Layout is the storage strategy.
	Layout Layout
	// Segments is the number of separately allocated segments (1 for dense).
	Segments int
	// Contiguous reports whether all values live in one allocation.
	Contiguous bool
	// NonZeros is the number of non-zero cells.
	NonZeros int
}

// Block is a read-only row×column matrix of float64 values.
type Block interface {
	// Rows returns the number of rows.
	Rows() int

	// Cols returns the number of physical columns.
	Cols() int

	// At returns the value at (row, col). Panics if either index is out of range.
	At(row, col int) float64

	// Info returns the layout metadata.
	Info() Info

	// Gather copies the values of row at the given columns into dst.
	//
	// It is equivalent to dst[i] = At(row, cols[i]) but uses the traversal
	// best suited to the layout. cols must be strictly increasing for the
	// sparse layout to use its merge walk; other orders fall back to lookups.
	// len(dst) must be at least len(cols).
	Gather(row int, cols []int, dst []float64)
}

// CheckColumns verifies that every entry of cols is a valid column of b.
func CheckColumns(b Block, cols []int) error {
	n := b.Cols()
	for i, c := range cols {
		if c < 0 || c >= n {
			return fmt.Errorf("%w: column %d at position %d, block has %d columns",
				errs.ErrColumnOutOfRange, c, i, n)
		}
	}

	return nil
}

// Materialize copies any block into a new Dense block.
func Materialize(b Block) *Dense {
	rows, cols := b.Rows(), b.Cols()
	values := make([]float64, rows*cols)

	all := make([]int, cols)
	for i := range all {
		all[i] = i
	}
	for r := 0; r < rows; r++ {
		b.Gather(r, all, values[r*cols:(r+1)*cols])
	}

	return newDense(rows, cols, values)
}

// sparsityThreshold is the density below which CBind produces a sparse block.
const sparsityThreshold = 0.4

// CBind appends blocks column-wise. All blocks must have the same row count.
//
// The result is Sparse when its density is below 0.4 and Dense otherwise.
//
// Returns:
//   - Block: A new block with the columns of all inputs, left to right
//   - error: ErrNilInput for a nil block, ErrShapeMismatch on differing row counts
func CBind(blocks ...Block) (Block, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no blocks to bind", errs.ErrNilInput)
	}

	rows, cols, nnz := -1, 0, 0
	for i, b := range blocks {
		if IsNil(b) {
			return nil, fmt.Errorf("%w: block %d", errs.ErrNilInput, i)
		}
		if rows >= 0 && b.Rows() != rows {
			return nil, fmt.Errorf("%w: block %d has %d rows, expected %d",
				errs.ErrShapeMismatch, i, b.Rows(), rows)
		}
		rows = b.Rows()
		cols += b.Cols()
		nnz += b.Info().NonZeros
	}

	cells := rows * cols
	if cells > 0 && float64(nnz)/float64(cells) < sparsityThreshold {
		return cbindSparse(rows, cols, nnz, blocks), nil
	}

	values := make([]float64, cells)
	offset := 0
	for _, b := range blocks {
		bc := b.Cols()
		for r := 0; r < rows; r++ {
			for c := 0; c < bc; c++ {
				values[r*cols+offset+c] = b.At(r, c)
			}
		}
		offset += bc
	}

	return newDense(rows, cols, values), nil
}

func cbindSparse(rows, cols, nnz int, blocks []Block) *Sparse {
	sb := NewSparseBuilder(rows, cols)
	sb.reserve(nnz)

	for r := 0; r < rows; r++ {
		offset := 0
		for _, b := range blocks {
			for c := 0; c < b.Cols(); c++ {
				if v := b.At(r, c); v != 0 {
					sb.appendCell(r, offset+c, v)
				}
			}
			offset += b.Cols()
		}
	}

	return sb.Build()
}

func countNonZeros(values []float64) int {
	n := 0
	for _, v := range values {
		if v != 0 {
			n++
		}
	}

	return n
}

// IsNil reports whether b is nil or a typed nil pointer.
func IsNil(b Block) bool {
	if b == nil {
		return true
	}

	v := reflect.ValueOf(b)

	return v.Kind() == reflect.Pointer && v.IsNil()
}
