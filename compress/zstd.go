package compress

// ZstdCompressor provides Zstandard compression.
//
// Best suited to groups that are written once and read rarely, where ratio
// matters more than speed. The pure Go implementation is used unless the
// module is built with the gozstd tag.
type ZstdCompressor struct{}

// maxPrealloc caps the buffer DecompressSize reserves up front; larger
// payloads grow as they decode.
const maxPrealloc = 16 << 20

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
