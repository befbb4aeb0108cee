package colgroup

import (
	"fmt"
	"sort"

	"github.com/arloliu/cla/block"
	"github.com/arloliu/cla/colidx"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
)

// Run is a maximal range of consecutive rows holding the same dictionary tuple.
type Run struct {
	Start  int
	Length int
	Entry  int
}

// RLE is a run-length encoded group over non-zero tuples.
//
// Runs are sorted by start and do not overlap. Rows not covered by a run
// hold the all-zero tuple.
type RLE struct {
	cols *colidx.Set
	rows int
	dict *Dictionary
	runs []Run
}

var _ ColGroup = (*RLE)(nil)

// NewRLE creates a run-length encoded group over rows rows.
//
// Returns ErrInvalidArgument if runs are empty, overlapping, unsorted, reach
// past rows, or reference entries outside the dictionary.
func NewRLE(cols *colidx.Set, rows int, dict *Dictionary, runs []Run) (*RLE, error) {
	if err := checkDictionary(cols, dict); err != nil {
		return nil, err
	}
	if err := checkOffsets(nil, rows); err != nil {
		return nil, err
	}

	end := 0
	for i, r := range runs {
		if r.Length <= 0 || r.Start < end || r.Start+r.Length > rows {
			return nil, fmt.Errorf("%w: run %d [%d, %d) invalid after row %d (rows=%d)",
				errs.ErrInvalidArgument, i, r.Start, r.Start+r.Length, end, rows)
		}
		if r.Entry < 0 || r.Entry >= dict.NumEntries() {
			return nil, fmt.Errorf("%w: run %d references entry %d of %d",
				errs.ErrInvalidArgument, i, r.Entry, dict.NumEntries())
		}
		end = r.Start + r.Length
	}

	return &RLE{cols: cols, rows: rows, dict: dict, runs: append([]Run(nil), runs...)}, nil
}

func (g *RLE) Type() format.GroupType { return format.GroupRLE }
func (g *RLE) Columns() *colidx.Set   { return g.cols }
func (g *RLE) Arity() int             { return g.cols.Size() }
func (g *RLE) NumRows() int           { return g.rows }
func (g *RLE) sealed()                {}

// Dictionary returns the tuple dictionary.
func (g *RLE) Dictionary() *Dictionary { return g.dict }

// Runs returns the runs. The slice must not be modified.
func (g *RLE) Runs() []Run { return g.runs }

// run returns the entry covering row, or -1 for a zero row.
func (g *RLE) run(row int) int {
	i := sort.Search(len(g.runs), func(i int) bool { return g.runs[i].Start > row }) - 1
	if i < 0 || row >= g.runs[i].Start+g.runs[i].Length {
		return -1
	}

	return g.runs[i].Entry
}

func (g *RLE) Get(row, j int) float64 {
	e := g.run(row)
	if e < 0 {
		return 0
	}

	return g.dict.Value(e, j)
}

func (g *RLE) DecodeRow(row int, dst []float64) {
	e := g.run(row)
	if e < 0 {
		clear(dst[:g.Arity()])
		return
	}
	copy(dst, g.dict.Entry(e))
}

func (g *RLE) Scheme() Scheme {
	return rleScheme{cols: g.cols, dict: g.dict}
}

// rleScheme extends the current run while rows repeat its tuple and opens a
// new run otherwise. Zero rows close the current run without opening one.
type rleScheme struct {
	cols *colidx.Set
	dict *Dictionary
}

func (s rleScheme) Type() format.GroupType { return format.GroupRLE }
func (s rleScheme) Columns() *colidx.Set   { return s.cols }
func (s rleScheme) Arity() int             { return s.cols.Size() }

func (s rleScheme) Encode(b block.Block, cols *colidx.Set) (ColGroup, error) {
	phys, err := resolveColumns(s.cols, b, cols)
	if err != nil {
		return nil, err
	}

	db := s.dict.builder()
	var runs []Run
	open := false
	scanRows(b, phys, func(row int, tuple []float64) {
		if isZeroTuple(tuple) {
			open = false
			return
		}

		e := db.add(tuple)
		if open && runs[len(runs)-1].Entry == e {
			runs[len(runs)-1].Length++
			return
		}
		runs = append(runs, Run{Start: row, Length: 1, Entry: e})
		open = true
	})

	return &RLE{cols: s.cols, rows: b.Rows(), dict: db.build(), runs: runs}, nil
}

func (s rleScheme) Update(b block.Block, cols *colidx.Set) (Scheme, error) {
	dict, err := extendDictionary(s.cols, s.dict, b, cols, true)
	if err != nil {
		return nil, err
	}

	return rleScheme{cols: s.cols, dict: dict}, nil
}

func (s rleScheme) Fingerprint() uint64 {
	return dictFingerprint(format.GroupRLE, s.cols, s.dict)
}
