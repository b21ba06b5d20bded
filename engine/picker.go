package engine

import (
	"slices"

	"chess-engine/board"
)

type pickerStage int

const (
	stageTT pickerStage = iota
	stageGenCaptures
	stageCaptures
	stageKillers
	stageGenQuiets
	stageQuiets
	stageDone
)

type scoredMove struct {
	move  board.Move
	score int32
}

// Picker lazily produces moves for one node in a priority order: the
// transposition-table move first, then captures ordered by MVV-LVA, then
// killer moves, then quiets ordered by history. When the side to move is
// in check it restricts itself to legal evasions, skipping the staged
// capture/quiet split.
type Picker struct {
	board   *board.Board
	stage   pickerStage
	ttMove  board.Move
	killers *killerTable
	history *historyTable
	counter board.Move
	ply     Ply

	captures []scoredMove
	quiets   []scoredMove
	idx      int

	evasions    bool
	evasionList []board.Move
	evasionIdx  int

	buf []board.Move
}

// NewPicker builds a move picker for the given position.
func NewPicker(b *board.Board, ttMove board.Move, killers *killerTable, history *historyTable, counters *counterMoveTable, prevMove board.Move, ply Ply) *Picker {
	p := &Picker{
		board:   b,
		ttMove:  ttMove,
		killers: killers,
		history: history,
		ply:     ply,
		buf:     make([]board.Move, 0, 64),
	}
	if counters != nil {
		p.counter = counters.get(b.SideToMove(), prevMove)
	}
	if b.InCheck(b.SideToMove()) {
		p.evasions = true
		p.evasionList = b.GenerateMovesInto(p.buf)
	}
	return p
}

// Next returns the next move in priority order, or 0 with ok=false when exhausted.
func (p *Picker) Next() (board.Move, bool) {
	if p.evasions {
		for p.evasionIdx < len(p.evasionList) {
			m := p.evasionList[p.evasionIdx]
			p.evasionIdx++
			return m, true
		}
		return 0, false
	}

	for {
		switch p.stage {
		case stageTT:
			p.stage = stageGenCaptures
			if p.ttMove != 0 && p.matchesPosition(p.ttMove) {
				return p.ttMove, true
			}
		case stageGenCaptures:
			p.generateCaptures()
			p.stage = stageCaptures
		case stageCaptures:
			if p.idx < len(p.captures) {
				m := p.captures[p.idx].move
				p.idx++
				if m == p.ttMove {
					continue
				}
				return m, true
			}
			p.idx = 0
			p.stage = stageKillers
		case stageKillers:
			p.stage = stageGenQuiets
			if p.killers != nil {
				k0, k1 := p.killers.moves[clampPly(p.ply)][0], p.killers.moves[clampPly(p.ply)][1]
				if k0 != 0 && k0 != p.ttMove && p.legalQuiet(k0) {
					return k0, true
				}
				if k1 != 0 && k1 != p.ttMove && k1 != k0 && p.legalQuiet(k1) {
					return k1, true
				}
			}
		case stageGenQuiets:
			p.generateQuiets()
			p.stage = stageQuiets
		case stageQuiets:
			if p.idx < len(p.quiets) {
				m := p.quiets[p.idx].move
				p.idx++
				if m == p.ttMove || p.isKillerMove(m) {
					continue
				}
				return m, true
			}
			p.stage = stageDone
		case stageDone:
			return 0, false
		}
	}
}

func clampPly(ply Ply) Ply {
	if ply >= MaxPly {
		return MaxPly - 1
	}
	return ply
}

func (p *Picker) isKillerMove(m board.Move) bool {
	return p.killers != nil && p.killers.isKiller(clampPly(p.ply), m)
}

// matchesPosition reports whether a move encoded against some earlier
// position (a TT or killer move) still describes the current board: the
// piece it claims to move must sit on its origin square and belong to the
// side to move, and its captured-piece field must match what is actually on
// the destination square (or the en passant square, for that flag).
func (p *Picker) matchesPosition(m board.Move) bool {
	if p.board.PieceAt(m.From()) != m.MovedPiece() {
		return false
	}
	if m.MovedPiece().Color() != p.board.SideToMove() {
		return false
	}
	if m.Flags() == board.FlagEnPassant {
		return m.To() == p.board.EnPassantSquare()
	}
	return p.board.PieceAt(m.To()) == m.CapturedPiece()
}

// legalQuiet reports whether a cached killer move is still a legal quiet move
// in the current position: killers are stored per ply across the whole search
// and the position at that ply can differ between visits. After the cheap
// field checks, the move must appear in the position's generated quiet list.
func (p *Picker) legalQuiet(m board.Move) bool {
	if m.CapturedPiece() != board.NoPiece || !p.matchesPosition(m) {
		return false
	}
	for _, q := range p.board.GenerateQuietsInto(p.buf[:0]) {
		if q == m {
			return true
		}
	}
	return false
}

func (p *Picker) generateCaptures() {
	list := p.board.GenerateCapturesInto(p.buf[:0])
	p.captures = p.captures[:0]
	for _, m := range list {
		p.captures = append(p.captures, scoredMove{m, mvvLva(m)})
	}
	slices.SortFunc(p.captures, func(a, b scoredMove) int { return int(b.score - a.score) })
}

func (p *Picker) generateQuiets() {
	list := p.board.GenerateQuietsInto(p.buf[:0])
	p.quiets = p.quiets[:0]
	side := p.board.SideToMove()
	for _, m := range list {
		score := p.history.score(side, m)
		if m == p.counter {
			score += 1 << 20
		}
		p.quiets = append(p.quiets, scoredMove{m, score})
	}
	slices.SortFunc(p.quiets, func(a, b scoredMove) int { return int(b.score - a.score) })
}

// mvvLva scores a capture as 6*mvv - lva, where mvv and lva are piece-type
// indices (not centipawn values): higher-value victims sort first and,
// among equal victims, cheaper attackers are preferred. A non-capture
// queen-promotion is scored as if its victim were the promoted piece minus
// a pawn, so it outranks a minor promotion.
func mvvLva(m board.Move) int32 {
	var mvv board.PieceType
	if captured := m.CapturedPiece(); captured != board.NoPiece {
		mvv = captured.Type()
	} else if promo := m.PromotionPieceType(); promo != board.PieceTypeNone {
		mvv = promo - board.PieceTypePawn
	}
	lva := m.MovedPiece().Type()
	return int32(6*int(mvv) - int(lva))
}
