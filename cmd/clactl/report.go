package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/arloliu/cla/colgroup"
	"github.com/arloliu/cla/compress"
)

// blockFile is the JSON form of a row-major matrix.
type blockFile struct {
	Rows   int       `json:"rows"`
	Cols   int       `json:"cols"`
	Values []float64 `json:"values"`
}

// groupInfo summarizes a column group.
type groupInfo struct {
	Type        string `json:"type"`
	Columns     []int  `json:"columns"`
	Rows        int    `json:"rows"`
	Fingerprint string `json:"fingerprint"`

	Overrides       *int `json:"overrides,omitempty"`
	DictionarySize  *int `json:"dictionary_size,omitempty"`
	Runs            *int `json:"runs,omitempty"`
	Exceptions      *int `json:"exceptions,omitempty"`
	MappingWidth    *int `json:"mapping_width,omitempty"`
	ValueCount      *int `json:"value_count,omitempty"`
}

func newGroupInfo(g colgroup.ColGroup) groupInfo {
	info := groupInfo{
		Type:        g.Type().String(),
		Columns:     g.Columns().Slice(),
		Rows:        g.NumRows(),
		Fingerprint: fmt.Sprintf("%016x", g.Scheme().Fingerprint()),
	}

	ptr := func(v int) *int { return &v }

	switch g := g.(type) {
	case *colgroup.Const:
		info.Overrides = ptr(g.NumOverrides())
	case *colgroup.DDC:
		info.DictionarySize = ptr(g.Dictionary().NumEntries())
		info.MappingWidth = ptr(g.Mapping().Width())
	case *colgroup.SDC:
		info.DictionarySize = ptr(g.Dictionary().NumEntries())
		info.Exceptions = ptr(len(g.Offsets()))
		info.MappingWidth = ptr(g.Mapping().Width())
	case *colgroup.RLE:
		info.DictionarySize = ptr(g.Dictionary().NumEntries())
		info.Runs = ptr(len(g.Runs()))
	case *colgroup.OLE:
		info.DictionarySize = ptr(g.Dictionary().NumEntries())
	case *colgroup.Uncompressed:
		info.ValueCount = ptr(len(g.Values()))
	}

	return info
}

// codecInfo is the JSON form of compress.CompressionStats.
type codecInfo struct {
	Algorithm      string  `json:"algorithm"`
	OriginalSize   int64   `json:"original_bytes"`
	CompressedSize int64   `json:"compressed_bytes"`
	Ratio          float64 `json:"ratio"`
	SpaceSavings   float64 `json:"space_savings_percent"`
}

func newCodecInfo(s compress.CompressionStats) codecInfo {
	return codecInfo{
		Algorithm:      s.Algorithm.String(),
		OriginalSize:   s.OriginalSize,
		CompressedSize: s.CompressedSize,
		Ratio:          s.CompressionRatio(),
		SpaceSavings:   s.SpaceSavings(),
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)

	return err
}

func loadBlockFile(path string) (*blockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read block file %s: %w", path, err)
	}

	var bf blockFile
	if err := json.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("failed to parse block file %s: %w", path, err)
	}

	return &bf, nil
}

// parseInts parses a comma-separated list such as "1,3,5".
func parseInts(s string) ([]int, error) {
	fields := splitList(s)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid column %q: %w", f, err)
		}
		out[i] = v
	}

	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	fields := splitList(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", f, err)
		}
		out[i] = v
	}

	return out, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	fields := strings.Split(s, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	return fields
}
