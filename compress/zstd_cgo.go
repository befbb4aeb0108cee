//go:build gozstd

package compress

import (
	"github.com/valyala/gozstd"
)

// zstdLevel matches the pure Go encoder's SpeedDefault.
const zstdLevel = 3

// Compress compresses the input data using the cgo Zstandard bindings.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, zstdLevel), nil
}

func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}

// DecompressSize decompresses into a buffer preallocated at size bytes.
func (c ZstdCompressor) DecompressSize(data []byte, size int) ([]byte, error) {
	if len(data) == 0 && size == 0 {
		return nil, nil
	}

	out, err := gozstd.Decompress(make([]byte, 0, min(size, maxPrealloc)), data)
	if err != nil {
		return nil, err
	}
	if len(out) != size {
		return nil, sizeMismatch("zstd", len(out), size)
	}

	return out, nil
}
