// Package hash provides xxHash64 helpers for tuples of float64 values.
package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// TupleHasher hashes tuples of float64 values with one reused xxHash64 state.
//
// Two tuples hash equal when their bit patterns are equal, so NaN payloads
// hash consistently while 0.0 and -0.0 hash differently.
//
// A TupleHasher is not safe for concurrent use; each encode call owns its own.
type TupleHasher struct {
	d *xxhash.Digest
}

// NewTupleHasher creates a TupleHasher.
func NewTupleHasher() *TupleHasher {
	return &TupleHasher{d: xxhash.New()}
}

// Sum returns the xxHash64 of the IEEE 754 bit patterns of vals.
func (h *TupleHasher) Sum(vals []float64) uint64 {
	h.d.Reset()
	writeFloats(h.d, vals)

	return h.d.Sum64()
}

// Digest is a streaming hasher used to fingerprint larger structures.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest creates an empty Digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Int adds an integer to the digest.
func (h *Digest) Int(v int) *Digest {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, _ = h.d.Write(buf[:])

	return h
}

// Ints adds a slice of integers, prefixed by its length.
func (h *Digest) Ints(vals []int) *Digest {
	h.Int(len(vals))
	for _, v := range vals {
		h.Int(v)
	}

	return h
}

// Floats adds a slice of float64 values, prefixed by its length.
func (h *Digest) Floats(vals []float64) *Digest {
	h.Int(len(vals))
	writeFloats(h.d, vals)

	return h
}

// Sum64 returns the current hash.
func (h *Digest) Sum64() uint64 {
	return h.d.Sum64()
}

// Bytes computes the xxHash64 of a byte slice.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func writeFloats(d *xxhash.Digest, vals []float64) {
	var buf [8]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
}
