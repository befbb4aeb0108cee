// Package compress provides the byte-level codecs applied to serialized
// column group payloads.
//
// A serialized group is a small header followed by a payload of fixed-width
// numbers: dictionary tuples, mapping entries, offsets and run descriptors.
// Payloads with few distinct tuples compress well with a general purpose
// codec on top of the column group encoding itself.
//
// # Available Codecs
//
//   - None: payload stored as is
//   - Zstd: best ratio, for archived groups (klauspost/compress, or
//     valyala/gozstd when built with the gozstd tag)
//   - S2: fast, moderate ratio
//   - LZ4: fastest decompression
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	packed, err := codec.Compress(payload)
//
// All codecs are stateless values and safe for concurrent use. Encoders and
// decoders that benefit from warm-up are pooled internally.
package compress
