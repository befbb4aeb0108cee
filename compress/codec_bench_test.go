package compress

import (
	"testing"
)

func BenchmarkCodec_Compress(b *testing.B) {
	data := groupPayload(1 << 16)
	for _, typ := range allCompressions {
		codec, err := GetCodec(typ)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(typ.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := codec.Compress(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCodec_Decompress(b *testing.B) {
	data := groupPayload(1 << 16)
	for _, typ := range allCompressions {
		codec, err := GetCodec(typ)
		if err != nil {
			b.Fatal(err)
		}
		packed, err := codec.Compress(data)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(typ.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := codec.Decompress(packed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
