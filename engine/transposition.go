package engine

import (
	"math/bits"

	"chess-engine/board"
)

// Bound indicates how a stored score relates to the true value of a position.
type Bound uint8

const (
	BoundNone  Bound = 0
	BoundExact Bound = 1
	BoundLower Bound = 2 // fail-high, true score >= stored score
	BoundUpper Bound = 3 // fail-low, true score <= stored score
)

const entriesPerBucket = 3

// ttEntry is one transposition table slot. key32 stores the low 32 bits of
// the full Zobrist key; the high bits select the bucket, so the two halves
// of the hash never collide with each other.
type ttEntry struct {
	key32 uint32
	move  board.Move
	score int16
	depth int8
	bound Bound
	age   uint8
}

type ttBucket struct {
	entries [entriesPerBucket]ttEntry
}

// Table is a fixed-size transposition table addressed by Zobrist hash,
// with age-aware always-replace-the-worst-slot eviction per bucket.
type Table struct {
	buckets []ttBucket
	age     uint8
}

// NewTable builds a table sized to approximately mb megabytes.
func NewTable(mb int) *Table {
	t := &Table{}
	t.Resize(mb)
	return t
}

// approxBucketBytes estimates a bucket's memory footprint (3 entries of
// roughly 16 bytes each once struct padding is accounted for).
const approxBucketBytes = entriesPerBucket * 16

// Resize rebuilds the table for a new size budget, rounding the bucket
// count down to the nearest power of two so index() can use a bitmask.
func (t *Table) Resize(mb int) {
	if mb < 1 {
		mb = 1
	}
	count := (mb * 1024 * 1024) / approxBucketBytes
	if count < 1 {
		count = 1
	}
	t.buckets = make([]ttBucket, floorPowerOfTwo(count))
	t.age = 0
}

// floorPowerOfTwo returns the largest power of two less than or equal to n (n >= 1).
func floorPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}
	return 1 << (bits.Len(uint(n)) - 1)
}

// Clear empties the table without reallocating.
func (t *Table) Clear() {
	for i := range t.buckets {
		t.buckets[i] = ttBucket{}
	}
	t.age = 0
}

// NewSearch bumps the table's generation counter so stale entries age out
// of replacement priority without being wiped.
func (t *Table) NewSearch() {
	t.age++
}

// index selects the bucket from the high bits of the hash, leaving the low
// 32 bits free to serve as the entry's verification key.
func (t *Table) index(key uint64) int {
	return int((key >> 32) & uint64(len(t.buckets)-1))
}

// Probe looks up key and reports whether a usable entry was found.
func (t *Table) Probe(key uint64) (move board.Move, score Score, depth int, bound Bound, ok bool) {
	b := &t.buckets[t.index(key)]
	key32 := uint32(key)
	for i := range b.entries {
		e := &b.entries[i]
		if e.bound != BoundNone && e.key32 == key32 {
			return e.move, Score(e.score), int(e.depth), e.bound, true
		}
	}
	return 0, 0, 0, BoundNone, false
}

// Store records a search result, replacing the shallowest/oldest entry in
// the bucket when all slots are occupied by different positions.
func (t *Table) Store(key uint64, move board.Move, score Score, depth int, bound Bound) {
	b := &t.buckets[t.index(key)]
	key32 := uint32(key)

	worst := 0
	worstScore := -1
	for i := range b.entries {
		e := &b.entries[i]
		if e.bound == BoundNone || e.key32 == key32 {
			worst = i
			break
		}
		// Prefer to evict older, shallower entries first.
		staleness := int(t.age-e.age)*64 - int(e.depth)
		if staleness > worstScore {
			worstScore = staleness
			worst = i
		}
	}

	e := &b.entries[worst]
	// Keep a deeper entry for the same key unless the new result is exact.
	if e.key32 == key32 && e.bound != BoundNone && int(e.depth) > depth && bound != BoundExact {
		return
	}
	e.key32 = key32
	e.move = move
	e.score = int16(score)
	e.depth = int8(depth)
	e.bound = bound
	e.age = t.age
}

// Hashfull estimates table occupancy in permille (0-1000), sampling up to
// 1000 buckets so a table smaller than that never reads out of range.
func (t *Table) Hashfull() int {
	n := len(t.buckets)
	if n == 0 {
		return 0
	}
	sample := n
	if sample > 1000 {
		sample = 1000
	}
	used := 0
	for i := 0; i < sample; i++ {
		for _, e := range t.buckets[i].entries {
			if e.bound != BoundNone && e.age == t.age {
				used++
			}
		}
	}
	return used * 1000 / (sample * entriesPerBucket)
}

// ScoreToTT relativises a mate score found at ply `ply` from the root into a
// root-independent distance before storing it.
func ScoreToTT(s Score, ply Ply) Score {
	if s >= MateThreshold {
		return s + Score(ply)
	}
	if s <= -MateThreshold {
		return s - Score(ply)
	}
	return s
}

// ScoreFromTT converts a stored mate-relative score back into a score
// relative to the current search ply.
func ScoreFromTT(s Score, ply Ply) Score {
	if s >= MateThreshold {
		return s - Score(ply)
	}
	if s <= -MateThreshold {
		return s + Score(ply)
	}
	return s
}
