package ttable

// Position is the state collaborator InsertPV walks: it exposes the
// signature of the current state and can advance by one move. Advance must
// not mutate the receiver's state as seen by the caller.
type Position interface {
	Signature() uint64
	Advance(Move) Position
}

// InsertPV replays a principal variation from pos, storing a placeholder
// entry (ValueNone, BoundNone, DepthNone) holding each move, so the line
// stays discoverable for move ordering even after table churn evicts the
// real results. Replay stops at the end of the slice or at a NoMove.
//
// Because Store overwrites a matching slot's value, bound and depth whenever
// the incoming move is real, reinsertion can replace a genuine search result
// with a near-worthless placeholder under the same signature. Known
// trade-off, kept as-is.
func (t *Table) InsertPV(pos Position, pv []Move) {
	p := pos
	for _, m := range pv {
		if m == NoMove {
			break
		}
		t.Store(p.Signature(), ValueNone, BoundNone, DepthNone, m)
		p = p.Advance(m)
	}
}
