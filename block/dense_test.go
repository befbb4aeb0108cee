package block

import (
	"testing"

	"github.com/arloliu/cla/errs"
	"github.com/stretchr/testify/require"
)

func TestNewDense(t *testing.T) {
	d, err := NewDense(4, 6, sampleValues)
	require.NoError(t, err)
	require.Equal(t, 4, d.Rows())
	require.Equal(t, 6, d.Cols())
	require.Equal(t, 1.2, d.At(2, 3))
	require.Equal(t, []float64{0.0, 1.1, 0.2, 1.2, 0.2, 1.3}, d.Row(1))

	info := d.Info()
	require.Equal(t, LayoutDense, info.Layout)
	require.Equal(t, 1, info.Segments)
	require.True(t, info.Contiguous)
	require.Equal(t, 22, info.NonZeros)
}

func TestNewDense_ShapeMismatch(t *testing.T) {
	_, err := NewDense(2, 3, make([]float64, 5))
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = NewDense(-1, 3, nil)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	require.Panics(t, func() { MustDense(1, 1, nil) })
}

func TestNewDense_ZeroRows(t *testing.T) {
	d, err := NewDense(0, 6, nil)
	require.NoError(t, err)
	require.Equal(t, 0, d.Rows())
	require.Equal(t, 0, d.Info().NonZeros)
}

func TestNewDenseFilled(t *testing.T) {
	d := NewDenseFilled(3, 2, 0.5)
	require.Equal(t, 6, d.Info().NonZeros)
	require.Equal(t, 0.5, d.At(2, 1))

	z := NewDenseFilled(3, 2, 0)
	require.Equal(t, 0, z.Info().NonZeros)
}

func TestDense_Gather(t *testing.T) {
	d := MustDense(4, 6, sampleValues)
	dst := make([]float64, 3)

	d.Gather(0, []int{5, 0, 3}, dst)
	require.Equal(t, []float64{1.3, 0.2, 1.2}, dst)
}

func TestDense_AtOutOfRange(t *testing.T) {
	d := MustDense(4, 6, sampleValues)

	require.Equal(t, sampleValues[6], d.At(1, 0))
	require.Panics(t, func() { d.At(0, 6) }, "column past the end must not read the next row")
	require.Panics(t, func() { d.At(0, -1) })
	require.Panics(t, func() { d.At(4, 0) })
}
