package block

import (
	"fmt"

	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/internal/options"
)

// DefaultSegmentRows is the number of rows per segment when no segment count is configured.
const DefaultSegmentRows = 1024

// Chunked is a dense block whose rows are split across separately allocated segments.
//
// Every segment except the last holds the same number of rows.
type Chunked struct {
	rows       int
	cols       int
	segRows    int
	segments   [][]float64
	contiguous bool
	nnz        int
}

var _ Block = (*Chunked)(nil)

type chunkedConfig struct {
	segments   int
	contiguous *bool
}

// ChunkedOption configures NewChunked.
type ChunkedOption = options.Option[*chunkedConfig]

// WithSegments sets the number of segments. The count is capped at the row count.
func WithSegments(n int) ChunkedOption {
	return options.New(func(c *chunkedConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: segment count %d", errs.ErrInvalidArgument, n)
		}
		c.segments = n

		return nil
	})
}

// WithContiguous overrides the Contiguous flag reported by Info.
//
// The stored data is unaffected; this exists to exercise traversal paths that
// depend on layout metadata.
func WithContiguous(contiguous bool) ChunkedOption {
	return options.NoError(func(c *chunkedConfig) {
		c.contiguous = &contiguous
	})
}

// NewChunked creates a chunked block from row-major values.
//
// The values are copied into the segments.
//
// Parameters:
//   - rows, cols: Block dimensions
//   - values: Row-major values, len(values) must equal rows*cols
//   - opts: WithSegments, WithContiguous
//
// Returns:
//   - *Chunked: The created block
//   - error: ErrShapeMismatch on a length mismatch, ErrInvalidArgument on a bad option
func NewChunked(rows, cols int, values []float64, opts ...ChunkedOption) (*Chunked, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", errs.ErrShapeMismatch, rows, cols)
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d block", errs.ErrShapeMismatch, len(values), rows, cols)
	}

	cfg := &chunkedConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	segRows := DefaultSegmentRows
	if cfg.segments > 0 {
		segRows = (rows + cfg.segments - 1) / cfg.segments
	}
	segRows = max(segRows, 1)

	c := &Chunked{
		rows:    rows,
		cols:    cols,
		segRows: segRows,
		nnz:     countNonZeros(values),
	}

	for start := 0; start < rows; start += segRows {
		end := min(start+segRows, rows)
		seg := make([]float64, (end-start)*cols)
		copy(seg, values[start*cols:end*cols])
		c.segments = append(c.segments, seg)
	}

	c.contiguous = len(c.segments) <= 1
	if cfg.contiguous != nil {
		c.contiguous = *cfg.contiguous
	}

	return c, nil
}

func (c *Chunked) Rows() int { return c.rows }
func (c *Chunked) Cols() int { return c.cols }

func (c *Chunked) At(row, col int) float64 {
	if row < 0 || row >= c.rows {
		panic(fmt.Sprintf("row %d out of range [0, %d)", row, c.rows))
	}
	if col < 0 || col >= c.cols {
		panic(fmt.Sprintf("column %d out of range [0, %d)", col, c.cols))
	}

	return c.segments[row/c.segRows][(row%c.segRows)*c.cols+col]
}

func (c *Chunked) Info() Info {
	return Info{
		Layout:     LayoutChunked,
		Segments:   len(c.segments),
		Contiguous: c.contiguous,
		NonZeros:   c.nnz,
	}
}

func (c *Chunked) Gather(row int, cols []int, dst []float64) {
	if row < 0 || row >= c.rows {
		panic(fmt.Sprintf("row %d out of range [0, %d)", row, c.rows))
	}

	off := (row % c.segRows) * c.cols
	base := c.segments[row/c.segRows][off : off+c.cols]
	for i, col := range cols {
		dst[i] = base[col]
	}
}
