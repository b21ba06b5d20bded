package engine

import "chess-engine/board"

// TempoBonus rewards the side to move for having the initiative.
const TempoBonus = 10

// Evaluate returns a centipawn score from the perspective of the side to move,
// built entirely from the board's incremental material/PST/phase bookkeeping
// tapered between midgame and endgame weights.
func Evaluate(b *board.Board) Score {
	mg := b.MaterialMG()
	eg := b.MaterialEG()
	phase := clampInt(b.Phase(), 0, board.TotalPhase)

	tapered := (mg*phase + eg*(board.TotalPhase-phase)) / board.TotalPhase

	score := Score(tapered)
	if b.SideToMove() == board.Black {
		score = -score
	}
	return score + TempoBonus
}
