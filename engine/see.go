package engine

import (
	"math/bits"

	"chess-engine/board"
)

// seeValue gives each piece type its static-exchange weight. Kings are
// priced enormous so they are always the last piece considered in an
// exchange, never actually "traded away".
var seeValue = [7]int{
	board.PieceTypeNone:   0,
	board.PieceTypePawn:   100,
	board.PieceTypeKnight: 320,
	board.PieceTypeBishop: 330,
	board.PieceTypeRook:   500,
	board.PieceTypeQueen:  900,
	board.PieceTypeKing:   20000,
}

// StaticExchange evaluates the material outcome of the capture sequence on
// m's destination square, assuming both sides keep recapturing with their
// least valuable attacker. It returns the net gain in centipawns from the
// perspective of the side making m.
func StaticExchange(b *board.Board, m board.Move) int {
	to := m.To()
	occ := b.AllOccupancy()

	fromBB := uint64(1) << uint(m.From())
	occ &^= fromBB

	var gain [32]int
	depth := 0

	captured := m.CapturedPiece()
	if m.Flags() == board.FlagCastle {
		return 0
	}
	if captured == board.NoPiece {
		return 0
	}
	gain[0] = seeValue[captured.Type()]
	attackerType := m.MovedPiece().Type()
	side := 1 - m.MovedPiece().Color()

	attackers := b.AttackersTo(to, occ)

	for {
		depth++
		sq := leastValuableAttacker(b, attackers, side, occ)
		if sq == board.NoSquare {
			break
		}
		occ &^= uint64(1) << uint(sq)
		attackers = b.AttackersTo(to, occ)

		gain[depth] = seeValue[attackerType] - gain[depth-1]
		attackerType = b.PieceAt(sq).Type()
		side = 1 - side

		if depth >= 31 {
			break
		}
	}

	for depth--; depth > 0; depth-- {
		if -gain[depth] < gain[depth-1] {
			gain[depth-1] = -gain[depth]
		}
	}
	return gain[0]
}

// leastValuableAttacker returns the square of side's cheapest remaining
// attacker of the bitboard `attackers`, or NoSquare if none remain.
func leastValuableAttacker(b *board.Board, attackers uint64, side board.Color, occ uint64) board.Square {
	mine := attackers & (occupancyOf(b, side) & occ)
	if mine == 0 {
		return board.NoSquare
	}
	best := board.NoSquare
	bestValue := 1 << 30
	for bb := mine; bb != 0; bb &= bb - 1 {
		sq := board.Square(bits.TrailingZeros64(bb))
		v := seeValue[b.PieceAt(sq).Type()]
		if v < bestValue {
			bestValue = v
			best = sq
		}
	}
	return best
}

func occupancyOf(b *board.Board, side board.Color) uint64 {
	return b.Bitboards(side).All
}

// SeeCapture is a convenience wrapper reporting whether a capture is not a
// material loss under static exchange evaluation (gain >= 0).
func SeeCapture(b *board.Board, m board.Move) bool {
	return StaticExchange(b, m) >= 0
}
