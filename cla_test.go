package cla

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/cla/block"
	"github.com/arloliu/cla/colgroup"
	"github.com/arloliu/cla/colidx"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
)

// testGroups returns a Const group over columns 1, 3, 5 and a DDC group over
// columns 0, 2, leaving column 4 unowned in a 6-column matrix.
func testGroups(t *testing.T) []colgroup.ColGroup {
	t.Helper()

	c, err := colgroup.NewConst(colidx.MustNew(1, 3, 5), []float64{1.1, 1.2, 1.3})
	require.NoError(t, err)

	s, err := colgroup.NewScheme(format.GroupDDC, colidx.MustNew(0, 2), nil)
	require.NoError(t, err)
	d, err := s.Encode(block.MustDense(1, 3, []float64{0, 0, 0.5}), nil)
	require.NoError(t, err)

	return []colgroup.ColGroup{c, d}
}

// appendRows holds four rows with one deviation from the constant columns.
func appendRows(unowned float64) (int, int, []float64) {
	return 4, 6, []float64{
		0, 1.1, 0.5, 1.2, 0, 1.3,
		1, 7.0, 0.5, 1.2, unowned, 1.3,
		2, 1.1, 0.5, 1.2, 0, 1.3,
		3, 1.1, 0.25, 1.2, 0, math.NaN(),
	}
}

func requireMatrixEqual(t *testing.T, want block.Block, m *Matrix) {
	t.Helper()

	require.Equal(t, want.Rows(), m.Rows())
	require.Equal(t, want.Cols(), m.Cols())

	dense := m.Decompress()
	for r := 0; r < want.Rows(); r++ {
		for c := 0; c < want.Cols(); c++ {
			w := math.Float64bits(want.At(r, c))
			require.Equal(t, w, math.Float64bits(m.Get(r, c)), "Get(%d, %d)", r, c)
			require.Equal(t, w, math.Float64bits(dense.At(r, c)), "Decompress at (%d, %d)", r, c)
		}
	}
}

func TestNewMatrix(t *testing.T) {
	m, err := NewMatrix(6, testGroups(t))
	require.NoError(t, err)
	require.Equal(t, 6, m.Cols())
	require.Equal(t, 1, m.Rows())
	require.Len(t, m.Groups(), 2)

	require.Equal(t, 1.1, m.Get(0, 1))
	require.Equal(t, 0.5, m.Get(0, 2))
	require.Equal(t, 0.0, m.Get(0, 4))
}

func TestNewMatrix_Errors(t *testing.T) {
	groups := testGroups(t)

	overlap, err := colgroup.NewEmpty(colidx.MustNew(2, 4))
	require.NoError(t, err)
	wide, err := colgroup.NewEmpty(colidx.MustNew(6))
	require.NoError(t, err)
	tall, err := colgroup.NewEmptyWithRows(colidx.MustNew(4), 9)
	require.NoError(t, err)

	tests := []struct {
		name   string
		cols   int
		groups []colgroup.ColGroup
		opts   []Option
		want   error
	}{
		{"negative columns", -1, nil, nil, errs.ErrInvalidArgument},
		{"nil group", 6, []colgroup.ColGroup{groups[0], nil}, nil, errs.ErrNilInput},
		{"overlapping columns", 6, append(groups, overlap), nil, errs.ErrOverlappingGroup},
		{"column out of range", 6, append(groups, wide), nil, errs.ErrColumnOutOfRange},
		{"row count mismatch", 6, append(groups, tall), nil, errs.ErrShapeMismatch},
		{"nil logger", 6, groups, []Option{WithLogger(nil)}, errs.ErrNilInput},
		{"zero parallelism", 6, groups, []Option{WithParallelism(0)}, errs.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMatrix(tt.cols, tt.groups, tt.opts...)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewMatrix_OverlapIsInvalidArgument(t *testing.T) {
	a, err := colgroup.NewEmpty(colidx.MustNew(0, 1))
	require.NoError(t, err)
	b, err := colgroup.NewEmpty(colidx.MustNew(1))
	require.NoError(t, err)

	_, err = NewMatrix(2, []colgroup.ColGroup{a, b})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestMatrix_Append(t *testing.T) {
	rows, cols, values := appendRows(0)

	chunked, err := block.NewChunked(rows, cols, values, block.WithSegments(2), block.WithContiguous(false))
	require.NoError(t, err)

	layouts := map[string]block.Block{
		"dense":   block.MustDense(rows, cols, values),
		"chunked": chunked,
		"sparse":  block.SparseFromBlock(block.MustDense(rows, cols, values)),
	}
	for name, b := range layouts {
		t.Run(name, func(t *testing.T) {
			m, err := NewMatrix(cols, testGroups(t), WithParallelism(1))
			require.NoError(t, err)

			next, err := m.Append(context.Background(), b)
			require.NoError(t, err)
			requireMatrixEqual(t, b, next)

			groups := next.Groups()
			require.Len(t, groups, 2, "no unowned values, no extra group")
			require.Equal(t, format.GroupConst, groups[0].Type())
			require.Equal(t, format.GroupDDC, groups[1].Type())

			c := groups[0].(*colgroup.Const)
			offsets, _ := c.Overrides()
			require.Equal(t, []int{1, 3}, offsets)
		})
	}
}

func TestMatrix_Append_CapturesUnownedColumns(t *testing.T) {
	rows, cols, values := appendRows(42)
	b := block.MustDense(rows, cols, values)

	m, err := NewMatrix(cols, testGroups(t))
	require.NoError(t, err)

	next, err := m.Append(context.Background(), b)
	require.NoError(t, err)
	requireMatrixEqual(t, b, next)

	groups := next.Groups()
	require.Len(t, groups, 3)
	require.Equal(t, format.GroupUncompressed, groups[2].Type())
	require.True(t, groups[2].Columns().Equal(colidx.MustNew(4)))
}

func TestMatrix_Append_CapturesNegativeZero(t *testing.T) {
	rows, cols, values := appendRows(math.Copysign(0, -1))
	b := block.MustDense(rows, cols, values)

	m, err := NewMatrix(cols, testGroups(t))
	require.NoError(t, err)

	next, err := m.Append(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, next.Groups(), 3)
	require.True(t, math.Signbit(next.Get(1, 4)))
}

func TestMatrix_Append_DoesNotModifyReceiver(t *testing.T) {
	m, err := NewMatrix(6, testGroups(t))
	require.NoError(t, err)
	before := m.Decompress().Values()

	rows, cols, values := appendRows(42)
	_, err = m.Append(context.Background(), block.MustDense(rows, cols, values))
	require.NoError(t, err)

	require.Equal(t, 1, m.Rows())
	require.Len(t, m.Groups(), 2)
	require.Equal(t, before, m.Decompress().Values())
}

func TestMatrix_Append_Chained(t *testing.T) {
	m, err := NewMatrix(6, testGroups(t))
	require.NoError(t, err)

	rows, cols, values := appendRows(0)
	first, err := m.Append(context.Background(), block.MustDense(rows, cols, values))
	require.NoError(t, err)

	b := block.MustDense(2, 6, []float64{
		9, 1.1, 0.75, 1.2, 0, 1.3,
		8, 1.1, 0.5, 1.2, 0, 1.3,
	})
	second, err := first.Append(context.Background(), b)
	require.NoError(t, err)
	requireMatrixEqual(t, b, second)
}

func TestMatrix_Append_Errors(t *testing.T) {
	m, err := NewMatrix(6, testGroups(t))
	require.NoError(t, err)

	_, err = m.Append(context.Background(), nil)
	require.ErrorIs(t, err, errs.ErrNilInput)

	var typed *block.Dense
	_, err = m.Append(context.Background(), typed)
	require.ErrorIs(t, err, errs.ErrNilInput)

	_, err = m.Append(context.Background(), block.MustDense(1, 5, make([]float64, 5)))
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Append(ctx, block.MustDense(1, 6, make([]float64, 6)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestMatrix_Append_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	m, err := NewMatrix(6, testGroups(t), WithLogger(zap.New(core)), WithParallelism(2))
	require.NoError(t, err)

	rows, cols, values := appendRows(42)
	_, err = m.Append(context.Background(), block.MustDense(rows, cols, values))
	require.NoError(t, err)

	encoded := logs.FilterMessage("encoded column group").All()
	require.Len(t, encoded, 2)
	for _, entry := range encoded {
		fields := entry.ContextMap()
		require.Equal(t, int64(4), fields["rows"])
		require.Contains(t, []string{"Const", "DDC"}, fields["type"])
	}

	captured := logs.FilterMessage("captured unowned columns").All()
	require.Len(t, captured, 1)
	require.Equal(t, int64(1), captured[0].ContextMap()["arity"])
	require.Equal(t, "Uncompressed", captured[0].ContextMap()["type"])
}

func TestMatrix_Decompress_Empty(t *testing.T) {
	m, err := NewMatrix(3, nil)
	require.NoError(t, err)
	require.Equal(t, 0, m.Rows())
	require.Empty(t, m.Decompress().Values())

	next, err := m.Append(context.Background(), block.Zeros(5, 3))
	require.NoError(t, err)
	require.Equal(t, 5, next.Rows())
	require.Empty(t, next.Groups())
	require.Equal(t, make([]float64, 15), next.Decompress().Values())
}

func TestMatrix_Append_NumericReconstruction(t *testing.T) {
	empty, err := colgroup.NewEmpty(colidx.MustNew(0, 1))
	require.NoError(t, err)
	m, err := NewMatrix(2, []colgroup.ColGroup{empty})
	require.NoError(t, err)

	negZero := math.Copysign(0, -1)
	payload := math.Float64frombits(0x7ff8000000000abc)
	b := block.MustDense(2, 2, []float64{negZero, 0, 1, payload})

	next, err := m.Append(context.Background(), b)
	require.NoError(t, err)

	require.True(t, next.Get(0, 0) == negZero, "owned -0 reads back equal under ==")
	require.False(t, math.Signbit(next.Get(0, 0)), "zero tuple matches the +0 baseline")
	require.Equal(t, 1.0, next.Get(1, 0))
	require.Equal(t, math.Float64bits(payload), math.Float64bits(next.Get(1, 1)), "NaN payload is kept")
}
