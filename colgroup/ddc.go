package colgroup

import (
	"fmt"

	"github.com/arloliu/cla/block"
	"github.com/arloliu/cla/colidx"
	"github.com/arloliu/cla/errs"
	"github.com/arloliu/cla/format"
	"github.com/arloliu/cla/internal/hash"
	"github.com/arloliu/cla/internal/pool"
)

// DDC is a dense dictionary coded group: every row points at one dictionary tuple.
type DDC struct {
	cols    *colidx.Set
	dict    *Dictionary
	mapping *Mapping
}

var _ ColGroup = (*DDC)(nil)

// NewDDC creates a dense dictionary coded group.
//
// Returns:
//   - *DDC: The created group
//   - error: ErrArityMismatch if the dictionary arity differs from cols.Size(),
//     ErrInvalidArgument if the mapping references entries beyond the dictionary
func NewDDC(cols *colidx.Set, dict *Dictionary, mapping *Mapping) (*DDC, error) {
	if err := checkDictionary(cols, dict); err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, fmt.Errorf("%w: mapping", errs.ErrNilInput)
	}
	if mapping.Bound() > dict.NumEntries() {
		return nil, fmt.Errorf("%w: mapping bound %d exceeds %d dictionary entries",
			errs.ErrInvalidArgument, mapping.Bound(), dict.NumEntries())
	}

	return &DDC{cols: cols, dict: dict, mapping: mapping}, nil
}

func checkDictionary(cols *colidx.Set, dict *Dictionary) error {
	if dict == nil {
		return fmt.Errorf("%w: dictionary", errs.ErrNilInput)
	}

	return checkArity(cols, dict.Arity(), "dictionary columns")
}

func (g *DDC) Type() format.GroupType { return format.GroupDDC }
func (g *DDC) Columns() *colidx.Set   { return g.cols }
func (g *DDC) Arity() int             { return g.cols.Size() }
func (g *DDC) NumRows() int           { return g.mapping.Len() }
func (g *DDC) sealed()                {}

// Dictionary returns the tuple dictionary.
func (g *DDC) Dictionary() *Dictionary { return g.dict }

// Mapping returns the row-to-entry mapping.
func (g *DDC) Mapping() *Mapping { return g.mapping }

func (g *DDC) Get(row, j int) float64 {
	return g.dict.Value(g.mapping.Get(row), j)
}

func (g *DDC) DecodeRow(row int, dst []float64) {
	copy(dst, g.dict.Entry(g.mapping.Get(row)))
}

func (g *DDC) Scheme() Scheme {
	return ddcScheme{cols: g.cols, dict: g.dict}
}

// ddcScheme maps each row to a dictionary entry, appending entries for unseen tuples.
type ddcScheme struct {
	cols *colidx.Set
	dict *Dictionary
}

func (s ddcScheme) Type() format.GroupType { return format.GroupDDC }
func (s ddcScheme) Columns() *colidx.Set   { return s.cols }
func (s ddcScheme) Arity() int             { return s.cols.Size() }

func (s ddcScheme) Encode(b block.Block, cols *colidx.Set) (ColGroup, error) {
	phys, err := resolveColumns(s.cols, b, cols)
	if err != nil {
		return nil, err
	}

	// NewMapping copies entries into its packed form, so pooled scratch suffices.
	entries, cleanup := pool.GetIntSlice(b.Rows())
	defer cleanup()

	db := s.dict.builder()
	scanRows(b, phys, func(row int, tuple []float64) {
		entries[row] = db.add(tuple)
	})

	dict := db.build()
	mapping, err := NewMapping(entries, dict.NumEntries())
	if err != nil {
		return nil, err
	}

	return &DDC{cols: s.cols, dict: dict, mapping: mapping}, nil
}

func (s ddcScheme) Update(b block.Block, cols *colidx.Set) (Scheme, error) {
	dict, err := extendDictionary(s.cols, s.dict, b, cols, false)
	if err != nil {
		return nil, err
	}

	return ddcScheme{cols: s.cols, dict: dict}, nil
}

func (s ddcScheme) Fingerprint() uint64 {
	return dictFingerprint(format.GroupDDC, s.cols, s.dict)
}

// extendDictionary returns dict extended with every tuple of b, skipping all-zero
// tuples when skipZero is set. dict itself is returned when nothing is new.
func extendDictionary(own *colidx.Set, dict *Dictionary, b block.Block, cols *colidx.Set, skipZero bool) (*Dictionary, error) {
	phys, err := resolveColumns(own, b, cols)
	if err != nil {
		return nil, err
	}

	db := dict.builder()
	scanRows(b, phys, func(_ int, tuple []float64) {
		if skipZero && isZeroTuple(tuple) {
			return
		}
		db.add(tuple)
	})

	if db.numEntries() == dict.NumEntries() {
		return dict, nil
	}

	return db.build(), nil
}

func dictFingerprint(typ format.GroupType, cols *colidx.Set, dict *Dictionary) uint64 {
	return hash.NewDigest().
		Int(int(typ)).
		Ints(cols.Slice()).
		Floats(dict.Values()).
		Sum64()
}
