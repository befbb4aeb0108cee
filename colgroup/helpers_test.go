package colgroup

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cla/block"
)

// baselineRows is a 4x6 block whose columns 1, 3, 5 hold 1.1, 1.2, 1.3 in every row.
var baselineRows = []float64{
	0.0, 1.1, 0.2, 1.2, 0.2, 1.3,
	0.0, 1.1, 0.2, 1.2, 0.2, 1.3,
	0.0, 1.1, 0.2, 1.2, 0.2, 1.3,
	0.0, 1.1, 0.2, 1.2, 0.2, 1.3,
}

// mixedRows varies the unowned columns and, in rows 1 and 3, the owned ones too.
var mixedRows = []float64{
	0.2, 1.1, 0.4, 1.2, 0.3, 1.3,
	0.0, 7.0, 0.2, 1.2, 0.2, 1.3,
	0.0, 1.1, 0.2, 1.2, 0.1, 1.3,
	0.2, 0.0, 0.4, 0.0, 0.1, 0.0,
}

func sameValue(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// requireReconstructs asserts that g holds b's values at cols for every row.
func requireReconstructs(t *testing.T, g ColGroup, b block.Block, cols []int) {
	t.Helper()

	require.NotNil(t, g)
	require.Equal(t, len(cols), g.Arity())

	row := make([]float64, g.Arity())
	for r := 0; r < b.Rows(); r++ {
		g.DecodeRow(r, row)
		for j, c := range cols {
			want := b.At(r, c)
			require.True(t, sameValue(want, g.Get(r, j)),
				"Get(%d, %d) = %v, want %v", r, j, g.Get(r, j), want)
			require.True(t, sameValue(want, row[j]),
				"DecodeRow(%d)[%d] = %v, want %v", r, j, row[j], want)
		}
	}
}

// layouts returns the same logical block in dense, chunked and sparse form.
func layouts(t *testing.T, rows, cols int, values []float64) map[string]block.Block {
	t.Helper()

	dense := block.MustDense(rows, cols, values)
	chunked, err := block.NewChunked(rows, cols, values, block.WithSegments(2), block.WithContiguous(false))
	require.NoError(t, err)

	return map[string]block.Block{
		"dense":   dense,
		"chunked": chunked,
		"sparse":  block.SparseFromBlock(dense),
	}
}
