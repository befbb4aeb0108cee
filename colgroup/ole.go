package colgroup

import (
	"fmt"
	"slices"

	"github.com/arloliu/cla/block"
	"github.com/arloliu/cla/colidx"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
)

// OLE is an offset-list encoded group over non-zero tuples.
//
// Entry e of the dictionary owns the sorted row list offsets[e]. Lists are
// disjoint; rows in no list hold the all-zero tuple.
type OLE struct {
	cols    *colidx.Set
	rows    int
	dict    *Dictionary
	offsets [][]int

	// listed rows in increasing order and the entry of each, for row lookup
	index   []int
	entries []int
}

var _ ColGroup = (*OLE)(nil)

// NewOLE creates an offset-list encoded group over rows rows.
//
// offsets must hold one strictly increasing list per dictionary entry, with
// every row in [0, rows) appearing in at most one list. The lists are copied.
func NewOLE(cols *colidx.Set, rows int, dict *Dictionary, offsets [][]int) (*OLE, error) {
	if err := checkDictionary(cols, dict); err != nil {
		return nil, err
	}
	if err := checkOffsets(nil, rows); err != nil {
		return nil, err
	}
	if len(offsets) != dict.NumEntries() {
		return nil, fmt.Errorf("%w: %d offset lists for %d dictionary entries",
			errs.ErrShapeMismatch, len(offsets), dict.NumEntries())
	}

	lists := make([][]int, len(offsets))
	for e, list := range offsets {
		if err := checkOffsets(list, rows); err != nil {
			return nil, fmt.Errorf("entry %d: %w", e, err)
		}
		lists[e] = slices.Clone(list)
	}

	g := &OLE{cols: cols, rows: rows, dict: dict, offsets: lists}
	g.buildIndex()
	for i := 1; i < len(g.index); i++ {
		if g.index[i] == g.index[i-1] {
			return nil, fmt.Errorf("%w: row %d listed by more than one entry", errs.ErrInvalidArgument, g.index[i])
		}
	}

	return g, nil
}

// buildIndex merges the offset lists into the row-ordered lookup index.
// Its size is the total number of listed rows, independent of the row count.
func (g *OLE) buildIndex() {
	type cell struct{ row, entry int }

	var n int
	for _, list := range g.offsets {
		n += len(list)
	}

	cells := make([]cell, 0, n)
	for e, list := range g.offsets {
		for _, r := range list {
			cells = append(cells, cell{row: r, entry: e})
		}
	}
	slices.SortFunc(cells, func(a, b cell) int { return a.row - b.row })

	g.index = make([]int, n)
	g.entries = make([]int, n)
	for i, c := range cells {
		g.index[i] = c.row
		g.entries[i] = c.entry
	}
}

func (g *OLE) Type() format.GroupType { return format.GroupOLE }
func (g *OLE) Columns() *colidx.Set   { return g.cols }
func (g *OLE) Arity() int             { return g.cols.Size() }
func (g *OLE) NumRows() int           { return g.rows }
func (g *OLE) sealed()                {}

// Dictionary returns the tuple dictionary.
func (g *OLE) Dictionary() *Dictionary { return g.dict }

// Offsets returns the row list of entry e. The slice must not be modified.
func (g *OLE) Offsets(e int) []int { return g.offsets[e] }

func (g *OLE) entry(row int) int {
	if i, ok := slices.BinarySearch(g.index, row); ok {
		return g.entries[i]
	}

	return -1
}

func (g *OLE) Get(row, j int) float64 {
	e := g.entry(row)
	if e < 0 {
		return 0
	}

	return g.dict.Value(e, j)
}

func (g *OLE) DecodeRow(row int, dst []float64) {
	e := g.entry(row)
	if e < 0 {
		clear(dst[:g.Arity()])
		return
	}
	copy(dst, g.dict.Entry(e))
}

func (g *OLE) Scheme() Scheme {
	return oleScheme{cols: g.cols, dict: g.dict}
}

// oleScheme appends each non-zero row to the list of its tuple's entry.
type oleScheme struct {
	cols *colidx.Set
	dict *Dictionary
}

func (s oleScheme) Type() format.GroupType { return format.GroupOLE }
func (s oleScheme) Columns() *colidx.Set   { return s.cols }
func (s oleScheme) Arity() int             { return s.cols.Size() }

func (s oleScheme) Encode(b block.Block, cols *colidx.Set) (ColGroup, error) {
	phys, err := resolveColumns(s.cols, b, cols)
	if err != nil {
		return nil, err
	}

	db := s.dict.builder()
	out := &OLE{cols: s.cols, rows: b.Rows(), offsets: make([][]int, s.dict.NumEntries())}
	scanRows(b, phys, func(row int, tuple []float64) {
		if isZeroTuple(tuple) {
			return
		}

		e := db.add(tuple)
		if e == len(out.offsets) {
			out.offsets = append(out.offsets, nil)
		}
		out.offsets[e] = append(out.offsets[e], row)
		// rows arrive in order, so the index stays sorted
		out.index = append(out.index, row)
		out.entries = append(out.entries, e)
	})
	out.dict = db.build()

	return out, nil
}

func (s oleScheme) Update(b block.Block, cols *colidx.Set) (Scheme, error) {
	dict, err := extendDictionary(s.cols, s.dict, b, cols, true)
	if err != nil {
		return nil, err
	}

	return oleScheme{cols: s.cols, dict: dict}, nil
}

func (s oleScheme) Fingerprint() uint64 {
	return dictFingerprint(format.GroupOLE, s.cols, s.dict)
}
