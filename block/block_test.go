package block

import (
	"testing"

	"github.com/arloliu/cla/errs"
	"github.com/stretchr/testify/require"
)

// sampleValues is a 4x6 row-major matrix with owned columns 1, 3, 5 holding 1.1, 1.2, 1.3.
var sampleValues = []float64{
	0.2, 1.1, 0.4, 1.2, 0.3, 1.3,
	0.0, 1.1, 0.2, 1.2, 0.2, 1.3,
	0.0, 1.1, 0.2, 1.2, 0.1, 1.3,
	0.2, 1.1, 0.4, 1.2, 0.1, 1.3,
}

func requireSameCells(t *testing.T, want, got Block) {
	t.Helper()

	require.Equal(t, want.Rows(), got.Rows())
	require.Equal(t, want.Cols(), got.Cols())
	for r := 0; r < want.Rows(); r++ {
		for c := 0; c < want.Cols(); c++ {
			require.Equal(t, want.At(r, c), got.At(r, c), "cell (%d, %d)", r, c)
		}
	}
}

func TestLayout_String(t *testing.T) {
	require.Equal(t, "Dense", LayoutDense.String())
	require.Equal(t, "Chunked", LayoutChunked.String())
	require.Equal(t, "Sparse", LayoutSparse.String())
	require.Equal(t, "Unknown", Layout(0).String())
}

func TestCheckColumns(t *testing.T) {
	b := MustDense(4, 6, sampleValues)

	require.NoError(t, CheckColumns(b, []int{0, 5}))

	err := CheckColumns(b, []int{1, 6})
	require.ErrorIs(t, err, errs.ErrColumnOutOfRange)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	require.ErrorIs(t, CheckColumns(b, []int{-1}), errs.ErrColumnOutOfRange)
}

func TestGather_AllLayoutsAgree(t *testing.T) {
	dense := MustDense(4, 6, sampleValues)
	chunked, err := NewChunked(4, 6, sampleValues, WithSegments(2))
	require.NoError(t, err)
	sparse := SparseFromBlock(dense)

	cols := []int{1, 3, 5}
	for r := 0; r < 4; r++ {
		want := make([]float64, 3)
		dense.Gather(r, cols, want)

		for _, b := range []Block{chunked, sparse} {
			got := make([]float64, 3)
			b.Gather(r, cols, got)
			require.Equal(t, want, got, "%s row %d", b.Info().Layout, r)
		}
	}
}

func TestMaterialize(t *testing.T) {
	sparse := SparseFromBlock(MustDense(4, 6, sampleValues))

	dense := Materialize(sparse)
	require.Equal(t, sampleValues, dense.Values())
	require.Equal(t, LayoutDense, dense.Info().Layout)
}

func TestCBind_SparseResult(t *testing.T) {
	data := MustDense(4, 6, sampleValues)

	out, err := CBind(data, Zeros(4, 1000))
	require.NoError(t, err)
	require.Equal(t, LayoutSparse, out.Info().Layout)
	require.Equal(t, 4, out.Rows())
	require.Equal(t, 1006, out.Cols())
	require.Equal(t, data.Info().NonZeros, out.Info().NonZeros)

	for r := 0; r < 4; r++ {
		for c := 0; c < 6; c++ {
			require.Equal(t, data.At(r, c), out.At(r, c))
		}
		require.Zero(t, out.At(r, 1005))
	}
}

func TestCBind_PaddingBefore(t *testing.T) {
	data := MustDense(4, 6, sampleValues)

	out, err := CBind(Zeros(4, 1000), data, data)
	require.NoError(t, err)
	require.Equal(t, 1012, out.Cols())

	for r := 0; r < 4; r++ {
		for c := 0; c < 6; c++ {
			require.Equal(t, data.At(r, c), out.At(r, 1000+c))
			require.Equal(t, data.At(r, c), out.At(r, 1006+c))
		}
	}
}

func TestCBind_DenseResult(t *testing.T) {
	a := NewDenseFilled(2, 2, 1)
	b := NewDenseFilled(2, 1, 2)

	out, err := CBind(a, b)
	require.NoError(t, err)
	require.Equal(t, LayoutDense, out.Info().Layout)
	require.Equal(t, []float64{1, 1, 2, 1, 1, 2}, Materialize(out).Values())
}

func TestCBind_Errors(t *testing.T) {
	_, err := CBind()
	require.ErrorIs(t, err, errs.ErrNilInput)

	_, err = CBind(NewDenseFilled(1, 1, 1), nil)
	require.ErrorIs(t, err, errs.ErrNilInput)

	_, err = CBind(NewDenseFilled(1, 1, 1), NewDenseFilled(2, 1, 1))
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestIsNil(t *testing.T) {
	var dense *Dense
	var sparse *Sparse

	require.True(t, IsNil(nil))
	require.True(t, IsNil(dense))
	require.True(t, IsNil(sparse))
	require.False(t, IsNil(Zeros(1, 1)))
}
