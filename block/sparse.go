package block

import (
	"fmt"
	"sort"

	"github.com/arloliu/cla/errs"
)

// Sparse is a block in compressed sparse row form. Cells not stored are zero.
type Sparse struct {
	rows   int
	cols   int
	rowPtr []int // len rows+1; row r spans [rowPtr[r], rowPtr[r+1])
	colIdx []int
	values []float64
}

var _ Block = (*Sparse)(nil)

// SparseBuilder accumulates cells row by row into a Sparse block.
//
// Cells must be appended in row-major order with strictly increasing columns
// within a row; Set enforces this and rejects zero values silently.
type SparseBuilder struct {
	s       *Sparse
	lastRow int
	lastCol int
}

// NewSparseBuilder creates a builder for a rows×cols sparse block.
func NewSparseBuilder(rows, cols int) *SparseBuilder {
	return &SparseBuilder{
		s: &Sparse{
			rows:   rows,
			cols:   cols,
			rowPtr: make([]int, rows+1),
		},
		lastRow: 0,
		lastCol: -1,
	}
}

func (sb *SparseBuilder) reserve(n int) {
	sb.s.colIdx = make([]int, 0, n)
	sb.s.values = make([]float64, 0, n)
}

// Set stores v at (row, col). Zero values are skipped.
//
// Returns:
//   - error: ErrInvalidArgument for a row out of range or a cell out of
//     row-major order, ErrColumnOutOfRange for a column out of range
func (sb *SparseBuilder) Set(row, col int, v float64) error {
	if row < 0 || row >= sb.s.rows {
		return fmt.Errorf("%w: row %d of %dx%d block", errs.ErrInvalidArgument, row, sb.s.rows, sb.s.cols)
	}
	if col < 0 || col >= sb.s.cols {
		return fmt.Errorf("%w: column %d of %dx%d block", errs.ErrColumnOutOfRange, col, sb.s.rows, sb.s.cols)
	}
	if row < sb.lastRow || (row == sb.lastRow && col <= sb.lastCol) {
		return fmt.Errorf("%w: cell (%d, %d) not in row-major order", errs.ErrInvalidArgument, row, col)
	}
	if v == 0 {
		return nil
	}

	sb.appendCell(row, col, v)

	return nil
}

func (sb *SparseBuilder) appendCell(row, col int, v float64) {
	s := sb.s
	for r := sb.lastRow + 1; r <= row; r++ {
		s.rowPtr[r] = len(s.colIdx)
	}
	s.colIdx = append(s.colIdx, col)
	s.values = append(s.values, v)
	sb.lastRow = row
	sb.lastCol = col
}

// Build finalizes the block. The builder must not be used afterwards.
func (sb *SparseBuilder) Build() *Sparse {
	s := sb.s
	for r := sb.lastRow + 1; r <= s.rows; r++ {
		s.rowPtr[r] = len(s.colIdx)
	}
	sb.s = nil

	return s
}

// Zeros creates an all-zero rows×cols sparse block.
func Zeros(rows, cols int) *Sparse {
	return NewSparseBuilder(rows, cols).Build()
}

// SparseFromBlock copies the non-zero cells of b into a new Sparse block.
func SparseFromBlock(b Block) *Sparse {
	sb := NewSparseBuilder(b.Rows(), b.Cols())
	sb.reserve(b.Info().NonZeros)

	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			if v := b.At(r, c); v != 0 {
				sb.appendCell(r, c, v)
			}
		}
	}

	return sb.Build()
}

func (s *Sparse) Rows() int { return s.rows }
func (s *Sparse) Cols() int { return s.cols }

func (s *Sparse) At(row, col int) float64 {
	if col < 0 || col >= s.cols {
		panic(fmt.Sprintf("column %d out of range [0, %d)", col, s.cols))
	}

	start, end := s.rowPtr[row], s.rowPtr[row+1]
	idx := s.colIdx[start:end]
	i := sort.SearchInts(idx, col)
	if i < len(idx) && idx[i] == col {
		return s.values[start+i]
	}

	return 0
}

func (s *Sparse) Info() Info {
	return Info{
		Layout:     LayoutSparse,
		Segments:   1,
		Contiguous: false,
		NonZeros:   len(s.values),
	}
}

// Gather walks the stored cells of row and cols together when cols is
// ascending, otherwise it falls back to per-cell lookups.
func (s *Sparse) Gather(row int, cols []int, dst []float64) {
	start, end := s.rowPtr[row], s.rowPtr[row+1]
	k := start
	prev := -1
	for i, c := range cols {
		if c <= prev {
			for j := i; j < len(cols); j++ {
				dst[j] = s.At(row, cols[j])
			}

			return
		}
		prev = c

		for k < end && s.colIdx[k] < c {
			k++
		}
		if k < end && s.colIdx[k] == c {
			dst[i] = s.values[k]
		} else {
			dst[i] = 0
		}
	}
}

// RowNonZeros returns the columns and values stored for row. The slices alias the block.
func (s *Sparse) RowNonZeros(row int) ([]int, []float64) {
	start, end := s.rowPtr[row], s.rowPtr[row+1]
	return s.colIdx[start:end], s.values[start:end]
}
