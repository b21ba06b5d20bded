package engine

import "time"

// SearchLimits describes the stop conditions requested for a `go` command.
type SearchLimits struct {
	WTime, BTime   int // milliseconds remaining
	WInc, BInc     int // milliseconds added per move
	MovesToGo      int
	Depth          int
	Nodes          int64
	MoveTime       int // fixed milliseconds, overrides the budget formula
	Infinite       bool
}

// UCILatencyMS is a 50 ms allowance for the round trip between the budget
// expiring and the controller actually observing `bestmove`. The searcher's
// stop checks compare elapsed time with the budget directly and do not add
// this allowance.
const UCILatencyMS = 50

// TimeBudget computes the soft time allocation in milliseconds for the side
// to move: side_time/30 plus the increment, capped at the time remaining.
// With neither time nor increment supplied, the budget is unbounded (signaled
// by ok=false) and the caller must rely on Depth/Nodes/Infinite instead.
func TimeBudget(limits SearchLimits, white bool) (budget time.Duration, ok bool) {
	if limits.MoveTime > 0 {
		return time.Duration(limits.MoveTime) * time.Millisecond, true
	}

	sideTime, sideInc := limits.WTime, limits.WInc
	if !white {
		sideTime, sideInc = limits.BTime, limits.BInc
	}
	if sideTime <= 0 && sideInc <= 0 {
		return 0, false
	}

	alloc := sideTime / 30
	if alloc < 1 {
		alloc = 1
	}
	alloc += sideInc
	if alloc > sideTime {
		alloc = sideTime
	}
	if alloc < 1 {
		alloc = 1
	}
	return time.Duration(alloc) * time.Millisecond, true
}
