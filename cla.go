// Package cla provides a compressed, column-oriented matrix built from column groups.
//
// A Matrix partitions its columns into disjoint column groups, each stored
// under one compact encoding (constant, run-length, offset-list, dense or
// sparse dictionary, uncompressed, empty). New row data is folded into an
// existing layout through each group's compression scheme, without
// decompressing the groups or re-planning the layout.
//
// # Core Features
//
//   - Seven column group encodings behind one ColGroup interface
//   - Compression schemes that re-encode new blocks into the same encoding family
//   - Layout-agnostic block access: dense, chunked, sparse and Arrow records
//   - Reconstruction equal under float64 ==, with NaN payloads kept bit for bit;
//     a -0 matched as zero or as part of a constant tuple reads back as +0
//   - Binary serialization with optional Zstd, S2 or LZ4 payload compression
//
// # Basic Usage
//
// Building a matrix from groups found by a planner, then appending a new block:
//
//	import "github.com/arloliu/cla"
//
//	g, _ := colgroup.NewConst(colidx.MustNew(1, 3, 5), []float64{1.1, 1.2, 1.3})
//	m, _ := cla.NewMatrix(6, []colgroup.ColGroup{g})
//
//	next, err := m.Append(ctx, block.MustDense(rows, 6, values))
//	if err != nil {
//	    return err
//	}
//	dense := next.Decompress()
//
// # Package Structure
//
// This package is a thin layer over colgroup and block. Use colgroup
// directly for single groups and schemes, and serial to persist them.
package cla

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/cla/block"
	"github.com/arloliu/cla/colgroup"
	"github.com/arloliu/cla/colidx"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
	"github.com/arloliu/cla/internal/options"
)

type config struct {
	logger      *zap.Logger
	parallelism int
}

// Option configures a Matrix.
type Option = options.Option[*config]

// WithLogger sets the logger used for per-group encode events. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.New(func(c *config) error {
		if logger == nil {
			return fmt.Errorf("%w: logger", errs.ErrNilInput)
		}
		c.logger = logger

		return nil
	})
}

// WithParallelism limits how many groups Append encodes at once.
// The default is GOMAXPROCS.
func WithParallelism(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: parallelism %d", errs.ErrInvalidArgument, n)
		}
		c.parallelism = n

		return nil
	})
}

// Matrix is an immutable compressed matrix made of column groups with disjoint columns.
//
// Columns owned by no group hold zero.
type Matrix struct {
	cols   int
	rows   int
	groups []colgroup.ColGroup
	owner  []int // column -> index into groups, -1 if unowned
	cfg    *config
}

// NewMatrix creates a matrix of cols columns from groups.
//
// The row count is taken from the groups; row-agnostic groups (NumRows 0)
// fit any row count.
//
// Parameters:
//   - cols: The number of columns
//   - groups: Column groups with disjoint columns inside [0, cols)
//   - opts: Logger and parallelism options
//
// Returns:
//   - *Matrix: The created matrix
//   - error: ErrNilInput for a nil group, ErrColumnOutOfRange, ErrOverlappingGroup,
//     or ErrShapeMismatch when groups disagree on the row count
func NewMatrix(cols int, groups []colgroup.ColGroup, opts ...Option) (*Matrix, error) {
	if cols < 0 {
		return nil, fmt.Errorf("%w: negative column count %d", errs.ErrInvalidArgument, cols)
	}

	cfg := &config{logger: zap.NewNop(), parallelism: runtime.GOMAXPROCS(0)}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return newMatrix(cols, slices.Clone(groups), cfg)
}

func newMatrix(cols int, groups []colgroup.ColGroup, cfg *config) (*Matrix, error) {
	m := &Matrix{cols: cols, groups: groups, owner: make([]int, cols), cfg: cfg}
	for i := range m.owner {
		m.owner[i] = -1
	}

	for i, g := range groups {
		if g == nil {
			return nil, fmt.Errorf("%w: column group %d", errs.ErrNilInput, i)
		}
		if g.Columns().Max() >= cols {
			return nil, fmt.Errorf("%w: group %d covers column %d of a %d-column matrix",
				errs.ErrColumnOutOfRange, i, g.Columns().Max(), cols)
		}
		for _, c := range g.Columns().All() {
			if prev := m.owner[c]; prev >= 0 {
				return nil, fmt.Errorf("%w: column %d in groups %d and %d", errs.ErrOverlappingGroup, c, prev, i)
			}
			m.owner[c] = i
		}

		if n := g.NumRows(); n > 0 {
			if m.rows > 0 && n != m.rows {
				return nil, fmt.Errorf("%w: group %d has %d rows, expected %d", errs.ErrShapeMismatch, i, n, m.rows)
			}
			m.rows = n
		}
	}

	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Groups returns the column groups in order.
func (m *Matrix) Groups() []colgroup.ColGroup {
	return slices.Clone(m.groups)
}

// Get returns the value at (row, col). It panics if col is out of range.
func (m *Matrix) Get(row, col int) float64 {
	i := m.owner[col]
	if i < 0 {
		return 0
	}

	g := m.groups[i]
	j, _ := g.Columns().Position(col)

	return g.Get(row, j)
}

// Decompress reconstructs the full matrix as a dense block.
func (m *Matrix) Decompress() *block.Dense {
	values := make([]float64, m.rows*m.cols)
	for _, g := range m.groups {
		cols := g.Columns().Slice()
		tuple := make([]float64, len(cols))
		for r := 0; r < m.rows; r++ {
			g.DecodeRow(r, tuple)
			for j, c := range cols {
				values[r*m.cols+c] = tuple[j]
			}
		}
	}

	return block.MustDense(m.rows, m.cols, values)
}

// Append encodes b with every group's compression scheme and returns the
// matrix of b's rows under the receiver's column layout.
//
// Groups are encoded concurrently, up to the configured parallelism. Non-zero
// values in columns owned by no group are kept in an extra Uncompressed group.
// The receiver is not modified.
//
// Parameters:
//   - ctx: Cancels pending group encodes
//   - b: A block with exactly Cols() columns
//
// Returns:
//   - *Matrix: The encoded rows of b
//   - error: ErrNilInput, ErrShapeMismatch, or the context error
func (m *Matrix) Append(ctx context.Context, b block.Block) (*Matrix, error) {
	if block.IsNil(b) {
		return nil, fmt.Errorf("%w: block", errs.ErrNilInput)
	}
	if b.Cols() != m.cols {
		return nil, fmt.Errorf("%w: block has %d columns, matrix has %d", errs.ErrShapeMismatch, b.Cols(), m.cols)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]colgroup.ColGroup, len(m.groups))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(m.cfg.parallelism)
	for i, g := range m.groups {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			encoded, err := g.Scheme().Encode(b, nil)
			if err != nil {
				return fmt.Errorf("group %d (%s %s): %w", i, g.Type(), g.Columns(), err)
			}
			m.cfg.logger.Debug("encoded column group",
				zap.Int("group", i),
				zap.Int("rows", encoded.NumRows()),
				zap.Int("arity", encoded.Arity()),
				zap.Stringer("type", encoded.Type()),
			)
			out[i] = encoded

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	spill, err := m.spillUnowned(b)
	if err != nil {
		return nil, err
	}
	if spill != nil {
		m.cfg.logger.Debug("captured unowned columns",
			zap.Int("group", len(out)),
			zap.Int("rows", spill.NumRows()),
			zap.Int("arity", spill.Arity()),
			zap.Stringer("type", spill.Type()),
		)
		out = append(out, spill)
	}

	next, err := newMatrix(m.cols, out, m.cfg)
	if err != nil {
		return nil, err
	}
	next.rows = b.Rows()

	return next, nil
}

// spillUnowned returns an Uncompressed group over the unowned columns of b
// that hold anything but +0, or nil if there are none.
func (m *Matrix) spillUnowned(b block.Block) (colgroup.ColGroup, error) {
	var unowned []int
	for c, i := range m.owner {
		if i < 0 {
			unowned = append(unowned, c)
		}
	}
	if len(unowned) == 0 {
		return nil, nil
	}

	seen := make([]bool, len(unowned))
	tuple := make([]float64, len(unowned))
	for r := 0; r < b.Rows(); r++ {
		b.Gather(r, unowned, tuple)
		for j, v := range tuple {
			if math.Float64bits(v) != 0 {
				seen[j] = true
			}
		}
	}

	var used []int
	for j, c := range unowned {
		if seen[j] {
			used = append(used, c)
		}
	}
	if len(used) == 0 {
		return nil, nil
	}

	cols, err := colidx.New(used...)
	if err != nil {
		return nil, err
	}
	s, err := colgroup.NewScheme(format.GroupUncompressed, cols, nil)
	if err != nil {
		return nil, err
	}

	return s.Encode(b, nil)
}
