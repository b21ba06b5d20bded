package engine

import "chess-engine/board"

// killerTable keeps, per ply, the two most recent quiet moves that caused a
// beta cutoff, used to order moves ahead of plain history-scored quiets.
type killerTable struct {
	moves [MaxPly][2]board.Move
}

func (k *killerTable) add(ply Ply, m board.Move) {
	if ply >= MaxPly {
		return
	}
	slot := &k.moves[ply]
	if slot[0] == m {
		return
	}
	slot[1] = slot[0]
	slot[0] = m
}

func (k *killerTable) isKiller(ply Ply, m board.Move) bool {
	if ply >= MaxPly {
		return false
	}
	slot := &k.moves[ply]
	return slot[0] == m || slot[1] == m
}

// historyTable scores quiet moves by how often they have produced cutoffs,
// indexed by moved piece and destination square.
type historyTable struct {
	scores [2][7][64]int32
}

const historyMax = 1 << 14

func (h *historyTable) bonus(side board.Color, m board.Move, depth int) {
	pt := m.MovedPiece().Type()
	sq := m.To()
	v := &h.scores[side][pt][sq]
	*v += int32(depth * depth)
	if *v > historyMax {
		*v >>= 1
	}
}

func (h *historyTable) penalty(side board.Color, m board.Move, depth int) {
	pt := m.MovedPiece().Type()
	sq := m.To()
	v := &h.scores[side][pt][sq]
	*v -= int32(depth)
	if *v < -historyMax {
		*v >>= 1
	}
}

func (h *historyTable) score(side board.Color, m board.Move) int32 {
	return h.scores[side][m.MovedPiece().Type()][m.To()]
}

// counterMoveTable records, per (side, moved-piece, destination), the quiet
// reply that most recently refuted it — used as a secondary ordering hint.
type counterMoveTable struct {
	moves [2][7][64]board.Move
}

func (c *counterMoveTable) set(side board.Color, prev board.Move, reply board.Move) {
	if prev == 0 {
		return
	}
	c.moves[side][prev.MovedPiece().Type()][prev.To()] = reply
}

func (c *counterMoveTable) get(side board.Color, prev board.Move) board.Move {
	if prev == 0 {
		return 0
	}
	return c.moves[side][prev.MovedPiece().Type()][prev.To()]
}
