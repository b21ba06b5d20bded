package engine

import (
	"bytes"
	"testing"

	"chess-engine/board"
)

func newTestSearcher() (*Searcher, *bytes.Buffer) {
	var out bytes.Buffer
	return NewSearcher(NewTable(1), &out), &out
}

func TestSearchFindsMateInOne(t *testing.T) {
	// White to move: Qxg7# with bishop on c3 protecting g7.
	b := board.ParseFen("7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1")
	s, _ := newTestSearcher()

	best := s.Go(&b, SearchLimits{Depth: 4}, nil)
	if best.From() != board.Square(5*8+6) || best.To() != board.Square(6*8+6) {
		t.Fatalf("expected Qg6xg7, got %s", best.String())
	}
}

func TestSearchReturnsLegalMoveFromStartpos(t *testing.T) {
	b := board.ParseFen(board.Startpos)
	s, _ := newTestSearcher()

	best := s.Go(&b, SearchLimits{Depth: 3}, nil)
	legal := b.GenerateMoves()
	found := false
	for _, m := range legal {
		if m == best {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("search returned a move not in the legal move list: %s", best.String())
	}
}

func TestSearchEmitsInfoLines(t *testing.T) {
	b := board.ParseFen(board.Startpos)
	s, out := newTestSearcher()

	s.Go(&b, SearchLimits{Depth: 2}, nil)
	if out.Len() == 0 {
		t.Fatalf("expected info lines to be written to Out")
	}
}

func TestNegamaxDetectsStalemateAsDraw(t *testing.T) {
	b := board.ParseFen("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	s, _ := newTestSearcher()

	score := s.negamax(&b, -Infinite, Infinite, 1, 0, true, 0)
	if score != DrawScore {
		t.Fatalf("expected stalemate to score as a draw, got %d", score)
	}
}

func TestHasNonPawnMaterial(t *testing.T) {
	withKnight := board.ParseFen("4k3/8/8/8/8/8/8/N3K3 w - - 0 1")
	if !hasNonPawnMaterial(&withKnight) {
		t.Fatalf("expected a knight to count as non-pawn material")
	}

	pawnsOnly := board.ParseFen("4k3/8/8/8/8/8/P7/4K3 w - - 0 1")
	if hasNonPawnMaterial(&pawnsOnly) {
		t.Fatalf("expected a king-and-pawns position to have no non-pawn material")
	}
}

func TestFormatScoreMate(t *testing.T) {
	if got := formatScore(MateScore - 1); got != "mate 1" {
		t.Errorf("expected mate 1, got %q", got)
	}
	if got := formatScore(-(MateScore - 2)); got != "mate -1" {
		t.Errorf("expected mate -1, got %q", got)
	}
}

func TestFormatScoreCentipawns(t *testing.T) {
	if got := formatScore(37); got != "cp 37" {
		t.Errorf("expected cp 37, got %q", got)
	}
}
