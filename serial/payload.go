package serial

import (
	"fmt"
	"math"

	"github.com/arloliu/cla/colgroup"
	"github.com/arloliu/cla/endian"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/internal/pool"
)

// payloadWriter appends fixed-width numbers to a pooled buffer.
type payloadWriter struct {
	engine endian.EndianEngine
	buf    *pool.ByteBuffer
}

func (w *payloadWriter) u32(v int) {
	w.buf.B = w.engine.AppendUint32(w.buf.B, uint32(v))
}

func (w *payloadWriter) ints(vals []int) {
	w.buf.Grow(4 * len(vals))
	for _, v := range vals {
		w.u32(v)
	}
}

func (w *payloadWriter) floats(vals []float64) {
	w.buf.Grow(8 * len(vals))
	for _, v := range vals {
		w.buf.B = w.engine.AppendUint64(w.buf.B, math.Float64bits(v))
	}
}

func (w *payloadWriter) dictionary(d *colgroup.Dictionary) {
	w.u32(d.NumEntries())
	w.floats(d.Values())
}

// mapping writes the bound followed by one entry per row at the mapping's width.
func (w *payloadWriter) mapping(m *colgroup.Mapping) {
	w.u32(m.Bound())

	width := m.Width()
	w.buf.Grow(width * m.Len())
	for i := 0; i < m.Len(); i++ {
		e := m.Get(i)
		switch width {
		case 1:
			w.buf.B = append(w.buf.B, uint8(e))
		case 2:
			w.buf.B = w.engine.AppendUint16(w.buf.B, uint16(e))
		default:
			w.buf.B = w.engine.AppendUint32(w.buf.B, uint32(e))
		}
	}
}

// payloadReader consumes a payload written by payloadWriter.
//
// The first short read records ErrTruncatedData; later reads return zero
// values and the error is reported once through err.
type payloadReader struct {
	engine endian.EndianEngine
	data   []byte
	off    int
	err    error
}

func (r *payloadReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data)-r.off < n {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d of %d", errs.ErrTruncatedData, n, r.off, len(r.data))
		return nil
	}

	b := r.data[r.off : r.off+n]
	r.off += n

	return b
}

// room reports whether count items of size bytes remain, recording ErrTruncatedData otherwise.
// It is checked before count*size is formed so corrupted counts cannot overflow.
func (r *payloadReader) room(count, size int) bool {
	if r.err != nil {
		return false
	}
	if count < 0 || count > (len(r.data)-r.off)/size {
		r.err = fmt.Errorf("%w: %d items of %d bytes at offset %d of %d",
			errs.ErrTruncatedData, count, size, r.off, len(r.data))
		return false
	}

	return true
}

func (r *payloadReader) u32() int {
	b := r.take(4)
	if b == nil {
		return 0
	}

	return int(r.engine.Uint32(b))
}

func (r *payloadReader) ints(n int) []int {
	if !r.room(n, 4) {
		return nil
	}
	b := r.take(4 * n)
	if b == nil {
		return nil
	}

	out := make([]int, n)
	for i := range out {
		out[i] = int(r.engine.Uint32(b[i*4:]))
	}

	return out
}

func (r *payloadReader) floats(n int) []float64 {
	if !r.room(n, 8) {
		return nil
	}
	b := r.take(8 * n)
	if b == nil {
		return nil
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(r.engine.Uint64(b[i*8:]))
	}

	return out
}

func (r *payloadReader) dictionary(arity int) (*colgroup.Dictionary, error) {
	n := r.u32()
	if !r.room(n, 8*arity) {
		return nil, r.err
	}
	values := r.floats(n * arity)
	if r.err != nil {
		return nil, r.err
	}

	return colgroup.NewDictionary(arity, values)
}

func (r *payloadReader) mapping(n int) (*colgroup.Mapping, error) {
	bound := r.u32()
	width := colgroup.MappingWidth(bound)
	if !r.room(n, width) {
		return nil, r.err
	}
	b := r.take(width * n)
	if r.err != nil {
		return nil, r.err
	}

	entries := make([]int, n)
	for i := range entries {
		switch width {
		case 1:
			entries[i] = int(b[i])
		case 2:
			entries[i] = int(r.engine.Uint16(b[i*2:]))
		default:
			entries[i] = int(r.engine.Uint32(b[i*4:]))
		}
	}

	return colgroup.NewMapping(entries, bound)
}

// finish reports the recorded error or unread trailing bytes.
func (r *payloadReader) finish() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.data) {
		return fmt.Errorf("%w: %d unread payload bytes", errs.ErrInvalidHeader, len(r.data)-r.off)
	}

	return nil
}
