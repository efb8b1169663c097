package ttable

// Bound describes what a stored value means: an exact search result, a
// one-sided bound left behind by an alpha-beta cutoff, or a static
// evaluation not backed by any real search.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExact
	BoundLower
	BoundUpper
	// BoundStaticEval marks a pure heuristic evaluation. A static-eval
	// store never displaces an existing entry for the same position.
	BoundStaticEval
)

func (b Bound) String() string {
	switch b {
	case BoundNone:
		return "none"
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	case BoundStaticEval:
		return "staticeval"
	}
	return "invalid"
}

// Value is a score in the calling search's units.
type Value int16

// ValueNone marks an entry carrying no usable score.
const ValueNone Value = -32768

// Depth is a search depth scaled by OnePly.
type Depth int16

const OnePly Depth = 2

// DepthNone sits far below any depth a real search stores, so placeholder
// entries written by InsertPV lose every depth comparison.
const DepthNone Depth = -127 * OnePly

// Move is an opaque best-move token supplied by the caller.
type Move uint32

const NoMove Move = 0

const clusterSize = 4

// entrySize is sizeof(Entry) including trailing padding.
const entrySize = 24

// Entry is one cached search result. The zero value is an empty slot; an
// empty slot always has key 0. Real position signatures never hash to 0 in
// practice, so a zero key is reserved to mean "empty".
type Entry struct {
	key        uint64
	move       Move
	value      Value
	depth      Depth
	bound      Bound
	generation uint8
}

func (e Entry) Key() uint64 { return e.key }

func (e Entry) Value() Value { return e.value }

func (e Entry) Bound() Bound { return e.bound }

func (e Entry) Depth() Depth { return e.depth }

func (e Entry) Move() Move { return e.move }

func (e Entry) Generation() uint8 { return e.generation }

func (e Entry) empty() bool { return e.key == 0 }
