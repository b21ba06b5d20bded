package engine

import (
	"testing"

	"chess-engine/board"
)

func TestTableStoreProbeRoundTrip(t *testing.T) {
	tt := NewTable(1)
	key := uint64(0x1234567890abcdef)
	m := board.NewMove(board.Square(12), board.Square(28), board.WhitePawn, board.NoPiece, board.NoPiece, board.FlagNone)

	tt.Store(key, m, Score(57), 4, BoundExact)

	gotMove, gotScore, gotDepth, gotBound, ok := tt.Probe(key)
	if !ok {
		t.Fatalf("expected a hit for stored key")
	}
	if gotMove != m || gotScore != 57 || gotDepth != 4 || gotBound != BoundExact {
		t.Fatalf("round-trip mismatch: move=%v score=%v depth=%v bound=%v", gotMove, gotScore, gotDepth, gotBound)
	}
}

func TestTableProbeMiss(t *testing.T) {
	tt := NewTable(1)
	if _, _, _, _, ok := tt.Probe(0xdeadbeef); ok {
		t.Fatalf("expected a miss on an empty table")
	}
}

func TestTableResizeClampsToOneBucket(t *testing.T) {
	tt := NewTable(0)
	if len(tt.buckets) < 1 {
		t.Fatalf("expected at least one bucket, got %d", len(tt.buckets))
	}
	tt.Resize(-5)
	if len(tt.buckets) < 1 {
		t.Fatalf("expected resize to clamp to at least one bucket, got %d", len(tt.buckets))
	}
}

func TestTableDoesNotDowngradeDeeperExactEntry(t *testing.T) {
	tt := NewTable(1)
	key := uint64(42)
	m := board.NewMove(board.Square(1), board.Square(2), board.WhiteKnight, board.NoPiece, board.NoPiece, board.FlagNone)

	tt.Store(key, m, 100, 10, BoundExact)
	tt.Store(key, m, 5, 2, BoundUpper)

	_, gotScore, gotDepth, gotBound, ok := tt.Probe(key)
	if !ok {
		t.Fatalf("expected entry to remain after shallow non-exact store")
	}
	if gotDepth != 10 || gotScore != 100 || gotBound != BoundExact {
		t.Fatalf("deeper exact entry was overwritten by a shallower bound: depth=%d score=%d bound=%v", gotDepth, gotScore, gotBound)
	}
}

func TestHashfullTracksCurrentGeneration(t *testing.T) {
	tt := NewTable(1)
	if tt.Hashfull() != 0 {
		t.Fatalf("expected 0 hashfull on an empty table")
	}
	m := board.NewMove(board.Square(1), board.Square(2), board.WhiteKnight, board.NoPiece, board.NoPiece, board.FlagNone)
	for i := 0; i < len(tt.buckets); i++ {
		// Vary the high bits so each store lands in a distinct bucket.
		tt.Store(uint64(i)<<32, m, 0, 1, BoundExact)
	}
	if got := tt.Hashfull(); got <= 0 {
		t.Fatalf("expected a nonzero hashfull after filling one slot per bucket, got %d", got)
	}
	tt.NewSearch()
	if got := tt.Hashfull(); got != 0 {
		t.Fatalf("expected hashfull to drop after aging into a new generation, got %d", got)
	}
}

func TestScoreToFromTTRoundTrip(t *testing.T) {
	cases := []struct {
		score Score
		ply   Ply
	}{
		{MateScore - 3, 5},
		{-MateScore + 3, 5},
		{DrawScore, 5},
		{250, 0},
	}
	for _, c := range cases {
		stored := ScoreToTT(c.score, c.ply)
		back := ScoreFromTT(stored, c.ply)
		if back != c.score {
			t.Errorf("ScoreToTT/ScoreFromTT round trip failed: score=%d ply=%d got=%d", c.score, c.ply, back)
		}
	}
}
