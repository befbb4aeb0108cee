// Package serial converts column groups to and from a compact binary form.
//
// A serialized group has three sections:
//
//	+-------------------+------------------------------+------------------+
//	| Header (16 bytes) | Payload (optionally packed)  | Checksum (8 B)   |
//	+-------------------+------------------------------+------------------+
//
// The header records the variant, codec, byte order, arity, row count and
// the unpacked payload length. The payload starts with the column indexes
// followed by the variant's own fields as fixed-width numbers; dictionary
// mappings use the narrowest width that fits their entry count. The
// checksum is the xxHash64 of the unpacked payload.
//
// Unmarshal rebuilds the group through the public colgroup constructors, so
// a corrupted payload is rejected by the same validation as a malformed
// constructor call.
package serial

import (
	"fmt"
	"math"

	"github.com/arloliu/cla/colgroup"
	"github.com/arloliu/cla/colidx"
	"github.com/arloliu/cla/compress"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
	"github.com/arloliu/cla/internal/hash"
	"github.com/arloliu/cla/internal/options"
	"github.com/arloliu/cla/internal/pool"
)

type config struct {
	compression format.CompressionType
	bigEndian   bool
}

// Option configures Marshal.
type Option = options.Option[*config]

// WithCompression sets the codec applied to the payload. The default is no compression.
func WithCompression(typ format.CompressionType) Option {
	return options.New(func(c *config) error {
		if _, err := compress.GetCodec(typ); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidArgument, err)
		}
		c.compression = typ

		return nil
	})
}

// WithBigEndian writes the header fields and payload big-endian.
func WithBigEndian() Option {
	return options.NoError(func(c *config) {
		c.bigEndian = true
	})
}

// WithLittleEndian writes the header fields and payload little-endian. This is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *config) {
		c.bigEndian = false
	})
}

// Marshal serializes g.
//
// Parameters:
//   - g: The column group to serialize
//   - opts: Compression and byte order options
//
// Returns:
//   - []byte: The serialized group, owned by the caller
//   - error: ErrNilInput for a nil group, ErrUnsupportedGroup for an unknown
//     implementation, ErrInvalidArgument for bad options or sizes beyond uint32
func Marshal(g colgroup.ColGroup, opts ...Option) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: column group", errs.ErrNilInput)
	}

	cfg := &config{compression: format.CompressionNone}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if uint64(g.NumRows()) > math.MaxUint32 || uint64(g.Arity()) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: group of %d rows and %d columns exceeds the format limits",
			errs.ErrInvalidArgument, g.NumRows(), g.Arity())
	}

	header := NewHeader(g.Type(), cfg.compression)
	if cfg.bigEndian {
		header.WithBigEndian()
	}
	engine := header.Engine()

	buf := pool.GetGroupBuffer()
	defer pool.PutGroupBuffer(buf)

	w := &payloadWriter{engine: engine, buf: buf}
	if err := writePayload(w, g); err != nil {
		return nil, err
	}
	payload := buf.Bytes()
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds the format limit", errs.ErrInvalidArgument, len(payload))
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	packed, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("%s payload compression failed: %w", cfg.compression, err)
	}

	header.Arity = uint32(g.Arity())
	header.Rows = uint32(g.NumRows())
	header.PayloadLength = uint32(len(payload))

	out := make([]byte, 0, HeaderSize+len(packed)+ChecksumSize)
	out = append(out, header.Bytes()...)
	out = append(out, packed...)
	out = engine.AppendUint64(out, hash.Bytes(payload))

	return out, nil
}

// Unmarshal reconstructs a column group serialized by Marshal.
//
// Returns:
//   - colgroup.ColGroup: A group equal in type, columns and content to the original
//   - error: ErrTruncatedData, ErrInvalidHeader, ErrUnsupportedGroup or
//     ErrChecksumMismatch for damaged input
func Unmarshal(data []byte) (colgroup.ColGroup, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < HeaderSize+ChecksumSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", errs.ErrTruncatedData, len(data), HeaderSize+ChecksumSize)
	}

	engine := header.Engine()
	packed := data[HeaderSize : len(data)-ChecksumSize]
	sum := engine.Uint64(data[len(data)-ChecksumSize:])

	payload, err := unpack(header, packed)
	if err != nil {
		return nil, err
	}
	if hash.Bytes(payload) != sum {
		return nil, fmt.Errorf("%w: payload of %s group", errs.ErrChecksumMismatch, header.GroupType)
	}

	r := &payloadReader{engine: engine, data: payload}
	g, err := readPayload(r, header)
	if err != nil {
		return nil, err
	}
	if err := r.finish(); err != nil {
		return nil, err
	}

	return g, nil
}

func unpack(header Header, packed []byte) ([]byte, error) {
	codec, err := compress.GetCodec(header.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidHeader, err)
	}

	size := int(header.PayloadLength)
	if header.Compression == format.CompressionNone && len(packed) != size {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", errs.ErrTruncatedData, len(packed), size)
	}

	payload, err := codec.DecompressSize(packed, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %w", errs.ErrChecksumMismatch, header.Compression, err)
	}

	return payload, nil
}

func writePayload(w *payloadWriter, g colgroup.ColGroup) error {
	w.ints(g.Columns().Slice())

	switch g := g.(type) {
	case *colgroup.Empty:
	case *colgroup.Const:
		offsets, overrides := g.Overrides()
		w.floats(g.Values())
		w.u32(len(offsets))
		w.ints(offsets)
		w.floats(overrides)
	case *colgroup.Uncompressed:
		w.floats(g.Values())
	case *colgroup.DDC:
		w.dictionary(g.Dictionary())
		w.mapping(g.Mapping())
	case *colgroup.SDC:
		w.floats(g.Default())
		w.dictionary(g.Dictionary())
		w.u32(len(g.Offsets()))
		w.ints(g.Offsets())
		w.mapping(g.Mapping())
	case *colgroup.RLE:
		w.dictionary(g.Dictionary())
		w.u32(len(g.Runs()))
		for _, run := range g.Runs() {
			w.u32(run.Start)
			w.u32(run.Length)
			w.u32(run.Entry)
		}
	case *colgroup.OLE:
		dict := g.Dictionary()
		w.dictionary(dict)
		for e := 0; e < dict.NumEntries(); e++ {
			w.u32(len(g.Offsets(e)))
			w.ints(g.Offsets(e))
		}
	default:
		return fmt.Errorf("%w: %T", errs.ErrUnsupportedGroup, g)
	}

	return nil
}

func readPayload(r *payloadReader, header Header) (colgroup.ColGroup, error) {
	arity := int(header.Arity)
	rows := int(header.Rows)

	ids := r.ints(arity)
	if r.err != nil {
		return nil, r.err
	}
	cols, err := colidx.New(ids...)
	if err != nil {
		return nil, err
	}

	switch header.GroupType {
	case format.GroupEmpty:
		return colgroup.NewEmptyWithRows(cols, rows)
	case format.GroupConst:
		values := r.floats(arity)
		n := r.u32()
		offsets := r.ints(n)
		if !r.room(n, 8*arity) {
			return nil, r.err
		}
		overrides := r.floats(n * arity)
		if r.err != nil {
			return nil, r.err
		}

		return colgroup.NewConstWithOverrides(cols, values, rows, offsets, overrides)
	case format.GroupUncompressed:
		if !r.room(rows, 8*arity) {
			return nil, r.err
		}
		values := r.floats(rows * arity)
		if r.err != nil {
			return nil, r.err
		}

		return colgroup.NewUncompressed(cols, rows, values)
	case format.GroupDDC:
		dict, err := r.dictionary(arity)
		if err != nil {
			return nil, err
		}
		mapping, err := r.mapping(rows)
		if err != nil {
			return nil, err
		}

		return colgroup.NewDDC(cols, dict, mapping)
	case format.GroupSDC:
		def := r.floats(arity)
		dict, err := r.dictionary(arity)
		if err != nil {
			return nil, err
		}
		offsets := r.ints(r.u32())
		mapping, err := r.mapping(len(offsets))
		if err != nil {
			return nil, err
		}

		return colgroup.NewSDC(cols, rows, def, dict, offsets, mapping)
	case format.GroupRLE:
		dict, err := r.dictionary(arity)
		if err != nil {
			return nil, err
		}
		n := r.u32()
		if !r.room(n, 12) {
			return nil, r.err
		}
		runs := make([]colgroup.Run, n)
		for i := range runs {
			runs[i] = colgroup.Run{Start: r.u32(), Length: r.u32(), Entry: r.u32()}
		}

		return colgroup.NewRLE(cols, rows, dict, runs)
	case format.GroupOLE:
		dict, err := r.dictionary(arity)
		if err != nil {
			return nil, err
		}
		lists := make([][]int, dict.NumEntries())
		for e := range lists {
			lists[e] = r.ints(r.u32())
		}
		if r.err != nil {
			return nil, r.err
		}

		return colgroup.NewOLE(cols, rows, dict, lists)
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedGroup, header.GroupType)
	}
}
