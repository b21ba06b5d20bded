package engine

import (
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"chess-engine/board"
)

// lmrTable holds the precomputed late-move-reduction amount for every
// (depth, moves-played) pair, filled once at startup.
var lmrTable [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			lmrTable[d][m] = int(math.Floor(math.Log2(float64(d)) * math.Log2(float64(m)) / 4))
		}
	}
}

// Searcher drives iterative-deepening alpha-beta search with quiescence,
// a transposition table, and UCI-style info output written to an
// injectable sink rather than stdout directly.
type Searcher struct {
	TT *Table
	Out io.Writer

	killers  killerTable
	history  historyTable
	counters counterMoveTable

	stop      atomic.Bool
	nodes     int64
	startTime time.Time

	repetition []uint64

	pvTable [MaxPly][MaxPly]board.Move
	pvLen   [MaxPly]int

	softBudget time.Duration
	hasBudget  bool
	hardNodes  int64
	hasNodes   bool
	maxDepth   int
}

// NewSearcher constructs a searcher backed by the given transposition table.
func NewSearcher(tt *Table, out io.Writer) *Searcher {
	return &Searcher{TT: tt, Out: out}
}

// Stop requests the in-progress search to return as soon as possible.
func (s *Searcher) Stop() { s.stop.Store(true) }

// NewGame resets all move-ordering heuristics and the transposition table
// between games, matching the `ucinewgame` command.
func (s *Searcher) NewGame() {
	s.killers = killerTable{}
	s.history = historyTable{}
	s.counters = counterMoveTable{}
	s.TT.Clear()
}

// Go runs iterative deepening from the root position until a stop
// condition fires, returning the best move found. history is the sequence
// of Zobrist keys of positions played so far in the game (for repetition
// detection); it is not mutated.
func (s *Searcher) Go(b *board.Board, limits SearchLimits, history []uint64) board.Move {
	s.stop.Store(false)
	s.nodes = 0
	s.startTime = time.Now()
	s.repetition = append(s.repetition[:0], history...)
	s.TT.NewSearch()

	s.maxDepth = limits.Depth
	if s.maxDepth <= 0 || s.maxDepth > int(MaxPly)-1 {
		s.maxDepth = int(MaxPly) - 1
	}
	s.hasNodes = limits.Nodes > 0
	s.hardNodes = limits.Nodes

	budget, ok := TimeBudget(limits, b.SideToMove() == board.White)
	s.hasBudget = ok && !limits.Infinite
	s.softBudget = budget

	var best board.Move
	var bestScore Score

	for depth := 1; depth <= s.maxDepth; depth++ {
		window := Score(10)
		alpha, beta := -Infinite, Infinite
		if depth != 1 {
			alpha = bestScore - window
			beta = bestScore + window
		}

		var score Score
		for {
			score = s.negamax(b, alpha, beta, depth, 0, true, 0)
			if s.stop.Load() {
				break
			}
			if score <= alpha {
				alpha = maxScore(-Infinite, alpha-window)
				window *= 2
				continue
			}
			if score >= beta {
				beta = minScore(Infinite, beta+window)
				window *= 2
				continue
			}
			break
		}

		if s.stop.Load() && depth > 1 {
			break
		}

		bestScore = score
		if s.pvLen[0] > 0 {
			best = s.pvTable[0][0]
		}
		s.emitInfo(depth, bestScore)

		if s.shouldStopBetweenDepths() {
			break
		}
	}

	return best
}

func (s *Searcher) shouldStopBetweenDepths() bool {
	if s.hasBudget && time.Since(s.startTime) >= s.softBudget {
		return true
	}
	return false
}

// checkStop is called periodically inside the tree to honor time/node limits
// and external Stop() requests with relaxed atomic reads.
func (s *Searcher) checkStop() bool {
	if s.stop.Load() {
		return true
	}
	if s.nodes&2047 == 0 {
		if s.hasBudget && time.Since(s.startTime) >= s.softBudget {
			s.stop.Store(true)
			return true
		}
		if s.hasNodes && s.nodes >= s.hardNodes {
			s.stop.Store(true)
			return true
		}
	}
	return false
}

// negamax implements principal-variation search with a transposition table,
// null-move pruning and late-move reductions. pv indicates whether this node
// is on the current best line (and should be searched with a full window).
func (s *Searcher) negamax(b *board.Board, alpha, beta Score, depth int, ply Ply, pv bool, lastMove board.Move) Score {
	s.pvLen[ply] = 0

	s.nodes++
	if s.checkStop() {
		return 0
	}
	if ply >= MaxPly-1 {
		return Evaluate(b)
	}
	if depth <= 0 {
		return s.quiescence(b, alpha, beta, ply)
	}
	if ply > 0 && s.isRepetitionOrFifty(b) {
		return DrawScore
	}

	inCheck := b.InCheck(b.SideToMove())
	if inCheck {
		depth++
	}

	alphaOrig := alpha
	var ttMove board.Move
	var ttHit bool
	var ttScoreVal Score
	if ttM, ttScore, ttDepth, ttBound, ok := s.TT.Probe(b.Hash()); ok {
		ttMove = ttM
		ttHit = true
		ttScoreVal = ScoreFromTT(ttScore, ply)
		if ttDepth >= depth {
			switch ttBound {
			case BoundExact:
				if !pv {
					return ttScoreVal
				}
			case BoundLower:
				if ttScoreVal >= beta {
					return ttScoreVal
				}
			case BoundUpper:
				if ttScoreVal <= alpha {
					return ttScoreVal
				}
			}
		}
	}

	eval := Evaluate(b)
	if ttHit {
		eval = ttScoreVal
	}

	// Reverse futility pruning: if the static eval already clears beta by
	// more than depth can plausibly claw back, stop here.
	if !pv && !inCheck && depth <= 6 && eval-Score(75*depth) >= beta {
		return eval
	}

	// Null-move pruning: skip our move entirely and see if the opponent is
	// still in trouble, which suggests this node will fail high regardless.
	if !pv && !inCheck && depth >= 2 && ply > 0 && eval >= beta && hasNonPawnMaterial(b) {
		st := b.MakeNullMove()
		reduced := depth - (2 + depth/5) - 1
		score := -s.negamax(b, -beta, -beta+1, reduced, ply+1, false, 0)
		b.UnmakeNullMove(st)
		if s.stop.Load() {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	picker := NewPicker(b, ttMove, &s.killers, &s.history, &s.counters, lastMove, ply)

	bestScore := -Infinite
	var bestMove board.Move
	legalCount := 0

	for {
		m, has := picker.Next()
		if !has {
			break
		}
		ok, st := b.MakeMove(m)
		if !ok {
			continue
		}
		legalCount++

		childDepth := depth - 1
		reduction := 0
		quiet := m.CapturedPiece() == board.NoPiece && m.PromotionPiece() == board.NoPiece
		if legalCount > 1 {
			reduction = lmrTable[clampInt(depth, 1, 63)][clampInt(legalCount, 1, 63)]
			if pv {
				reduction--
			}
			reduction = clampInt(reduction, 0, childDepth)
		}

		var score Score
		if legalCount == 1 {
			score = -s.negamax(b, -beta, -alpha, childDepth, ply+1, pv, m)
		} else {
			score = -s.negamax(b, -alpha-1, -alpha, childDepth-reduction, ply+1, false, m)
			if score > alpha && (reduction > 0 || pv) {
				score = -s.negamax(b, -beta, -alpha, childDepth, ply+1, pv, m)
			}
		}

		b.UnmakeMove(m, st)

		if s.stop.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				s.updatePV(ply, m)
				if alpha >= beta {
					if quiet {
						s.killers.add(ply, m)
						s.history.bonus(b.SideToMove(), m, depth)
						s.counters.set(b.SideToMove(), lastMove, m)
					}
					break
				}
			} else if quiet {
				s.history.penalty(b.SideToMove(), m, depth)
			}
		}
	}

	if legalCount == 0 {
		if inCheck {
			return -MateScore + Score(ply)
		}
		return DrawScore
	}

	bound := BoundExact
	if bestScore <= alphaOrig {
		bound = BoundUpper
	} else if bestScore >= beta {
		bound = BoundLower
	}
	s.TT.Store(b.Hash(), bestMove, ScoreToTT(bestScore, ply), depth, bound)

	return bestScore
}

// quiescence extends the search along capture sequences past the nominal
// horizon to avoid misjudging positions with pending tactics.
func (s *Searcher) quiescence(b *board.Board, alpha, beta Score, ply Ply) Score {
	s.nodes++
	if s.checkStop() {
		return 0
	}
	if ply >= MaxPly {
		return Evaluate(b)
	}
	if s.isRepetitionOrFifty(b) {
		return DrawScore
	}

	standPat := Evaluate(b)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	inCheck := b.InCheck(b.SideToMove())
	var moves []board.Move
	if inCheck {
		moves = b.GenerateMovesInto(make([]board.Move, 0, 32))
	} else {
		moves = b.GenerateCapturesInto(make([]board.Move, 0, 32))
	}

	for _, m := range moves {
		if !inCheck && m.CapturedPiece() != board.NoPiece && !SeeCapture(b, m) {
			continue
		}
		ok, st := b.MakeMove(m)
		if !ok {
			continue
		}
		score := -s.quiescence(b, -beta, -alpha, ply+1)
		b.UnmakeMove(m, st)

		if s.stop.Load() {
			return 0
		}
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

func hasNonPawnMaterial(b *board.Board) bool {
	bb := b.Bitboards(b.SideToMove())
	return bb.Knights|bb.Bishops|bb.Rooks|bb.Queens != 0
}

func (s *Searcher) isRepetitionOrFifty(b *board.Board) bool {
	if b.IsDrawBy50() {
		return true
	}
	return b.IsDrawByRepetition(s.repetition)
}

func (s *Searcher) updatePV(ply Ply, m board.Move) {
	s.pvTable[ply][0] = m
	copy(s.pvTable[ply][1:], s.pvTable[ply+1][:s.pvLen[ply+1]])
	s.pvLen[ply] = s.pvLen[ply+1] + 1
}

// emitInfo writes one `info depth ...` line per spec.md's UCI-style format,
// converting internal mate-relative scores into UCI's "mate N" convention.
func (s *Searcher) emitInfo(depth int, score Score) {
	if s.Out == nil {
		return
	}
	elapsed := time.Since(s.startTime)
	ms := elapsed.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	nps := s.nodes * 1000 / ms

	scoreStr := formatScore(score)

	pv := ""
	for i := 0; i < s.pvLen[0]; i++ {
		pv += " " + s.pvTable[0][i].String()
	}

	fmt.Fprintf(s.Out, "info depth %d score %s nodes %d nps %d hashfull %d time %d pv%s\n",
		depth, scoreStr, s.nodes, nps, s.TT.Hashfull(), ms, pv)
}

func formatScore(score Score) string {
	if IsMateScore(score) {
		mateDistance := MateScore - abs32(score)
		var mateIn Score
		if score > 0 {
			mateIn = (mateDistance + 1) / 2
		} else {
			mateIn = -mateDistance / 2
		}
		return fmt.Sprintf("mate %d", mateIn)
	}
	return fmt.Sprintf("cp %d", score)
}
