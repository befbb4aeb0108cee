package format

type (
	GroupType       uint8
	CompressionType uint8
)

const (
	GroupEmpty        GroupType = 0x1 // GroupEmpty represents an all-zero column group.
	GroupConst        GroupType = 0x2 // GroupConst represents a constant tuple with optional row overrides.
	GroupRLE          GroupType = 0x3 // GroupRLE represents run-length encoded tuples.
	GroupOLE          GroupType = 0x4 // GroupOLE represents per-tuple offset lists.
	GroupDDC          GroupType = 0x5 // GroupDDC represents dense dictionary coding.
	GroupSDC          GroupType = 0x6 // GroupSDC represents sparse dictionary coding around a default tuple.
	GroupUncompressed GroupType = 0x7 // GroupUncompressed represents raw row-major values.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (g GroupType) String() string {
	switch g {
	case GroupEmpty:
		return "Empty"
	case GroupConst:
		return "Const"
	case GroupRLE:
		return "RLE"
	case GroupOLE:
		return "OLE"
	case GroupDDC:
		return "DDC"
	case GroupSDC:
		return "SDC"
	case GroupUncompressed:
		return "Uncompressed"
	default:
		return "Unknown"
	}
}

// Valid reports whether g names a known column group variant.
func (g GroupType) Valid() bool {
	return g >= GroupEmpty && g <= GroupUncompressed
}

// ParseGroupType maps a case-sensitive lower-case name ("const", "ddc", ...) to its GroupType.
func ParseGroupType(name string) (GroupType, bool) {
	switch name {
	case "empty":
		return GroupEmpty, true
	case "const":
		return GroupConst, true
	case "rle":
		return GroupRLE, true
	case "ole":
		return GroupOLE, true
	case "ddc":
		return GroupDDC, true
	case "sdc":
		return GroupSDC, true
	case "uncompressed":
		return GroupUncompressed, true
	default:
		return 0, false
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps "none", "zstd", "s2" or "lz4" to its CompressionType.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
