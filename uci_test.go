package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestUCILoopHandshake(t *testing.T) {
	in := strings.NewReader("uci\nisready\nquit\n")
	var out bytes.Buffer
	uciLoop(in, &out)

	got := out.String()
	if !strings.Contains(got, "uciok") {
		t.Errorf("expected uciok in output, got %q", got)
	}
	if !strings.Contains(got, "readyok") {
		t.Errorf("expected readyok in output, got %q", got)
	}
}

func TestUCILoopSearchesFixedDepth(t *testing.T) {
	in := strings.NewReader("position startpos\ngo depth 3\nquit\n")
	var out bytes.Buffer
	uciLoop(in, &out)

	got := out.String()
	if !strings.Contains(got, "bestmove") {
		t.Fatalf("expected a bestmove line, got %q", got)
	}
}

func TestParseGoLimits(t *testing.T) {
	limits := parseGoLimits("go wtime 60000 btime 55000 winc 1000 binc 1000 depth 10")
	if limits.WTime != 60000 || limits.BTime != 55000 {
		t.Errorf("unexpected time limits: %+v", limits)
	}
	if limits.WInc != 1000 || limits.BInc != 1000 {
		t.Errorf("unexpected increments: %+v", limits)
	}
	if limits.Depth != 10 {
		t.Errorf("unexpected depth: %+v", limits)
	}
}

func TestHandlePositionAppliesMoves(t *testing.T) {
	b, history := handlePosition("position startpos moves e2e4 e7e5", nil)
	if b.ToFen() == "" {
		t.Fatal("expected non-empty fen after applying moves")
	}
	if len(history) != 3 {
		t.Errorf("expected 3 history entries (start + 2 plies), got %d", len(history))
	}
}
