package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(4)

	n, err := bb.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, 3, bb.Len())
	require.Equal(t, []byte{1, 2, 3}, bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 4)
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte{9, 9})

	bb.Grow(4)
	require.Equal(t, 8, bb.Cap(), "sufficient capacity must not reallocate")

	bb.Grow(100)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 100)
	require.Equal(t, []byte{9, 9}, bb.Bytes())
}

func TestByteBuffer_GrowLarge(t *testing.T) {
	bb := NewByteBuffer(8 * GroupBufferDefaultSize)
	bb.B = bb.B[:cap(bb.B)]

	bb.Grow(1)
	require.GreaterOrEqual(t, bb.Cap(), 8*GroupBufferDefaultSize+2*GroupBufferDefaultSize)
}

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	_, _ = bb.Write([]byte("payload"))
	p.Put(bb)

	again := p.Get()
	require.Equal(t, 0, again.Len())

	p.Put(nil)
	p.Put(NewByteBuffer(1024))
}

func TestGroupBuffer(t *testing.T) {
	bb := GetGroupBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	PutGroupBuffer(bb)
}
