// Package ttable implements a fixed-capacity transposition table for
// game-tree search: an associative cache mapping 64-bit position signatures
// to search results, organized in clusters of four entries with a
// generation-and-depth replacement scheme.
package ttable

import (
	"math"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	// MinSizeMB and MaxSizeMB bound the megabyte budget SetSize supports.
	MinSizeMB = 4
	MaxSizeMB = 4096

	// minClusters is the floor the sizing loop doubles up from.
	minClusters = 1024
)

type cluster [clusterSize]Entry

// Table is a transposition table. A position's signature selects one cluster
// via its low bits, and the four entries of that cluster are the only slots
// the position can occupy.
//
// A Table has a single logical owner: no internal locking is performed, and
// Clear or SetSize must never overlap a Store or Probe. The zero value is an
// empty table with no capacity; call SetSize before storing.
type Table struct {
	clusters   []cluster
	mask       uint64
	generation uint8
	// writes counts evictions of unrelated entries during the current
	// search, not fresh or same-position stores. It feeds Full.
	writes uint64
	probes uint64
	hits   uint64
}

// SetSize sets the table capacity from a budget in megabytes. Callers are
// expected to request a size in [MinSizeMB, MaxSizeMB]; anything outside is
// clamped and logged. The cluster count becomes the largest power of two, at
// least minClusters, whose entry array still fits the budget. The table is
// cleared if and only if the capacity actually changed.
func (t *Table) SetSize(mbSize int) {
	if mbSize < MinSizeMB || mbSize > MaxSizeMB {
		clamped := min(max(mbSize, MinSizeMB), MaxSizeMB)
		log.Warn().Int("requested-mb", mbSize).Int("clamped-mb", clamped).
			Msg("table size outside supported range")
		mbSize = clamped
	}

	budget := uint64(mbSize) << 20
	numClusters := uint64(minClusters)
	for 2*numClusters*clusterSize*entrySize <= budget {
		numClusters *= 2
	}

	if numClusters == uint64(len(t.clusters)) {
		return
	}

	t.clusters = make([]cluster, numClusters)
	t.mask = numClusters - 1
	log.Info().
		Uint64("clusters", numClusters).
		Uint64("entries", numClusters*clusterSize).
		Uint64("table-bytes", numClusters*clusterSize*entrySize).
		Uint64("total-system-memory-bytes", memory.TotalMemory()).
		Msg("transposition-table-size")
}

// SetSizeFraction sizes the table from a fraction of total system memory,
// clamped to the supported megabyte range.
func (t *Table) SetSizeFraction(fraction float64) {
	mb := int(fraction * float64(memory.TotalMemory()) / (1 << 20))
	t.SetSize(min(max(mb, MinSizeMB), MaxSizeMB))
}

// Clear zeroes every slot without changing capacity.
func (t *Table) Clear() {
	clear(t.clusters)
	t.probes = 0
	t.hits = 0
	log.Debug().Msg("transposition-table-cleared")
}

func (t *Table) bucket(key uint64) *cluster {
	return &t.clusters[key&t.mask]
}

// Store records a search result for the position with the given signature.
// Probing key 0 or storing under it is outside the contract; 0 means empty.
//
// If the position already occupies a slot in its cluster, that slot is
// updated in place, with two exceptions: a BoundStaticEval store never
// displaces an existing entry, and a NoMove store keeps the slot's
// previously recorded move. Otherwise the least valuable of the cluster's
// four entries is evicted; entries from a previous search go before entries
// from the current one, and shallower entries go before deeper ones.
func (t *Table) Store(key uint64, value Value, bound Bound, depth Depth, move Move) {
	c := t.bucket(key)
	for i := range c {
		e := &c[i]
		if !e.empty() && e.key != key {
			continue
		}
		if !e.empty() && bound == BoundStaticEval {
			return
		}
		if move == NoMove {
			move = e.move
		}
		*e = Entry{key: key, move: move, value: value, depth: depth,
			bound: bound, generation: t.generation}
		return
	}

	victim := &c[0]
	for i := 1; i < clusterSize; i++ {
		if t.moreEvictable(&c[i], victim) {
			victim = &c[i]
		}
	}
	*victim = Entry{key: key, move: move, value: value, depth: depth,
		bound: bound, generation: t.generation}
	t.writes++
}

// moreEvictable reports whether a makes a better eviction victim than b.
// Staleness dominates: an entry from a previous search always goes before
// one from the current search. Within the same staleness class the
// shallower entry goes. Ties keep the incumbent.
func (t *Table) moreEvictable(a, b *Entry) bool {
	aCurrent := a.generation == t.generation
	bCurrent := b.generation == t.generation
	if aCurrent != bCurrent {
		return bCurrent
	}
	return a.depth < b.depth
}

// Probe looks up the position with the given signature, returning a copy of
// the matching entry, or ok == false when no slot in the cluster holds it.
// Entry state is never mutated by a probe.
func (t *Table) Probe(key uint64) (entry Entry, ok bool) {
	t.probes++
	c := t.bucket(key)
	for i := range c {
		if c[i].key == key {
			t.hits++
			return c[i], true
		}
	}
	return Entry{}, false
}

// NewSearch marks the start of a new top-level search. Everything written
// during earlier searches becomes stale for replacement purposes without
// being touched, and the eviction count behind Full resets. The generation
// counter wraps by truncation; it is never compared across a wrap.
func (t *Table) NewSearch() {
	t.generation++
	t.writes = 0
}

// Full estimates, in permille, how many slots have received at least one
// eviction during the current search, modeling evictions as random
// insertions with replacement. Fresh and same-position overwrites are not
// counted, so the estimate runs low. Reporting only; never used for
// correctness decisions.
func (t *Table) Full() int {
	n := float64(len(t.clusters) * clusterSize)
	if n == 0 || t.writes == 0 {
		return 0
	}
	permille := 1000 * (1 - math.Exp(float64(t.writes)*math.Log(1-1/n)))
	return min(int(permille), 1000)
}

// NumClusters returns the cluster count: zero before sizing, a power of two
// after.
func (t *Table) NumClusters() int { return len(t.clusters) }

// Capacity returns the total number of entry slots.
func (t *Table) Capacity() int { return len(t.clusters) * clusterSize }

// Stats reports probe and hit counts accumulated since the last Clear.
func (t *Table) Stats() (probes, hits uint64) { return t.probes, t.hits }
