package serial

import (
	"fmt"

	"github.com/arloliu/cla/endian"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
)

const (
	EndiannessMask = 0x0002 // Mask for endianness bit (bit 1)
	ReservedMask   = 0x000D // Mask for reserved bits (bits 0, 2, 3)
	MagicMask      = 0xFFF0 // Mask for magic number (bits 4-15)

	MagicGroupV1 = 0xC1A0 // MagicGroupV1 identifies version 1 of the serialized column group format.

	HeaderSize   = 16 // fixed header size in bytes
	ChecksumSize = 8  // xxHash64 trailer size in bytes
)

// Header is the fixed-size header at the start of a serialized column group.
type Header struct {
	// Options packs the magic number and the endianness bit.
	// It is always stored little-endian so the byte order can be read first.
	Options uint16 // byte offset 0-1
	// GroupType is the column group variant.
	GroupType format.GroupType // byte offset 2
	// Compression is the codec applied to the payload.
	Compression format.CompressionType // byte offset 3
	// Arity is the number of columns.
	Arity uint32 // byte offset 4-7
	// Rows is the number of rows represented; 0 for row-agnostic groups.
	Rows uint32 // byte offset 8-11
	// PayloadLength is the payload size before compression.
	PayloadLength uint32 // byte offset 12-15
}

// NewHeader creates a little-endian header for a group of the given type.
func NewHeader(typ format.GroupType, compression format.CompressionType) Header {
	return Header{
		Options:     MagicGroupV1,
		GroupType:   typ,
		Compression: compression,
	}
}

// IsBigEndian returns whether the header and payload are big-endian.
func (h Header) IsBigEndian() bool {
	return h.Options&EndiannessMask != 0
}

// WithBigEndian sets big-endian byte order.
func (h *Header) WithBigEndian() {
	h.Options |= EndiannessMask
}

// WithLittleEndian sets little-endian byte order.
func (h *Header) WithLittleEndian() {
	h.Options &^= EndiannessMask
}

// Engine returns the byte order of everything after Options.
func (h Header) Engine() endian.EndianEngine {
	if h.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Bytes serializes the header into a HeaderSize byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	b[0] = byte(h.Options)
	b[1] = byte(h.Options >> 8)
	b[2] = byte(h.GroupType)
	b[3] = byte(h.Compression)

	engine := h.Engine()
	engine.PutUint32(b[4:8], h.Arity)
	engine.PutUint32(b[8:12], h.Rows)
	engine.PutUint32(b[12:16], h.PayloadLength)

	return b
}

// Parse parses the header from the first HeaderSize bytes of data.
//
// Returns:
//   - error: ErrTruncatedData if data is short, ErrInvalidHeader for a bad magic number,
//     reserved bits or compression type, ErrUnsupportedGroup for an unknown group type
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: %d bytes, header needs %d", errs.ErrTruncatedData, len(data), HeaderSize)
	}

	h.Options = uint16(data[0]) | uint16(data[1])<<8
	h.GroupType = format.GroupType(data[2])
	h.Compression = format.CompressionType(data[3])

	engine := h.Engine()
	h.Arity = engine.Uint32(data[4:8])
	h.Rows = engine.Uint32(data[8:12])
	h.PayloadLength = engine.Uint32(data[12:16])

	return h.Validate()
}

// Validate checks the magic number, reserved bits and enum fields.
func (h Header) Validate() error {
	if h.Options&MagicMask != MagicGroupV1 {
		return fmt.Errorf("%w: magic 0x%04X", errs.ErrInvalidHeader, h.Options&MagicMask)
	}
	if h.Options&ReservedMask != 0 {
		return fmt.Errorf("%w: reserved bits 0x%04X set", errs.ErrInvalidHeader, h.Options&ReservedMask)
	}
	if !h.GroupType.Valid() {
		return fmt.Errorf("%w: type 0x%02X", errs.ErrUnsupportedGroup, uint8(h.GroupType))
	}
	if h.Compression < format.CompressionNone || h.Compression > format.CompressionLZ4 {
		return fmt.Errorf("%w: compression 0x%02X", errs.ErrInvalidHeader, uint8(h.Compression))
	}
	if h.Arity == 0 {
		return fmt.Errorf("%w: zero arity", errs.ErrInvalidHeader)
	}

	return nil
}

// ParseHeader parses a Header from the start of a serialized column group.
func ParseHeader(data []byte) (Header, error) {
	var h Header
	if err := h.Parse(data); err != nil {
		return Header{}, err
	}

	return h, nil
}
