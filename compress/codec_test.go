package compress

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cla/format"
)

var allCompressions = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

// groupPayload mimics a serialized dictionary group: a few distinct tuples
// followed by a long run of one-byte mapping entries.
func groupPayload(rows int) []byte {
	buf := make([]byte, 0, 64+rows)
	for _, v := range []float64{1.1, 1.2, 1.3, 2.5, 0, -1} {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	for r := 0; r < rows; r++ {
		buf = append(buf, byte(r%7/5))
	}

	return buf
}

func TestCodec_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"payload":  groupPayload(4096),
		"small":    groupPayload(3),
		"one byte": {0x42},
		"random":   bytes.Repeat([]byte{0x13, 0x37, 0xfe, 0x01, 0x99}, 200),
	}

	for _, typ := range allCompressions {
		codec, err := GetCodec(typ)
		require.NoError(t, err)

		for name, data := range inputs {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				packed, err := codec.Compress(data)
				require.NoError(t, err)

				unpacked, err := codec.Decompress(packed)
				require.NoError(t, err)
				require.Equal(t, data, unpacked)
			})
		}
	}
}

func TestCodec_EmptyInput(t *testing.T) {
	for _, typ := range allCompressions {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			out, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Empty(t, out)
		})
	}
}

func TestCodec_CompressesRepetitivePayload(t *testing.T) {
	data := groupPayload(1 << 14)
	for _, typ := range allCompressions[1:] {
		t.Run(typ.String(), func(t *testing.T) {
			_, stats, err := Measure(typ, data)
			require.NoError(t, err)
			require.Equal(t, typ, stats.Algorithm)
			require.Equal(t, int64(len(data)), stats.OriginalSize)
			require.Less(t, stats.CompressionRatio(), 0.5)
			require.Greater(t, stats.SpaceSavings(), 50.0)
		})
	}
}

func TestCodec_CorruptInput(t *testing.T) {
	garbage := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01, 0x02}
	for _, typ := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			_, err = codec.Decompress(garbage)
			require.Error(t, err)
		})
	}
}

func TestNoOpCompressor_SharesMemory(t *testing.T) {
	data := []byte{1, 2, 3}
	out, err := NewNoOpCompressor().Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])
}

func TestCodec_DecompressSize(t *testing.T) {
	data := groupPayload(10000)
	for _, typ := range allCompressions {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			packed, err := codec.Compress(data)
			require.NoError(t, err)

			out, err := codec.DecompressSize(packed, len(data))
			require.NoError(t, err)
			require.Equal(t, data, out)

			_, err = codec.DecompressSize(packed, len(data)-1)
			require.Error(t, err)

			out, err = codec.DecompressSize(nil, 0)
			require.NoError(t, err)
			require.Empty(t, out)
		})
	}
}

func TestCreateCodec(t *testing.T) {
	for _, typ := range allCompressions {
		codec, err := CreateCodec(typ, "payload")
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := CreateCodec(format.CompressionType(0x7f), "payload")
	require.ErrorContains(t, err, "invalid payload compression")

	_, err = GetCodec(format.CompressionType(0x7f))
	require.Error(t, err)

	_, _, err = Measure(format.CompressionType(0x7f), nil)
	require.Error(t, err)
}

func TestCompressionStats(t *testing.T) {
	require.Equal(t, 0.0, CompressionStats{}.CompressionRatio())

	s := CompressionStats{OriginalSize: 200, CompressedSize: 50}
	require.InDelta(t, 0.25, s.CompressionRatio(), 1e-12)
	require.InDelta(t, 75.0, s.SpaceSavings(), 1e-12)
}
