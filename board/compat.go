package board

import (
	"errors"
	"strings"
)

// Startpos is the FEN of the standard chess starting position.
const Startpos = FENStartPos

// ParseFen parses a FEN string, panicking on malformed input. Callers that
// need error handling should use ParseFEN directly.
func ParseFen(fen string) Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return *b
}

// ToFen is a lowercase-friendly alias for ToFEN.
func (b *Board) ToFen() string { return b.ToFEN() }

// Apply plays a move and returns an undo closure. It panics if the move is illegal.
func (b *Board) Apply(m Move) func() {
	ok, st := b.MakeMove(m)
	if !ok {
		panic("board.Apply: illegal move applied")
	}
	return func() { b.UnmakeMove(m, st) }
}

// ApplyNullMove performs a null move and returns the corresponding undo closure.
func (b *Board) ApplyNullMove() func() {
	st := b.MakeNullMove()
	return func() { b.UnmakeNullMove(st) }
}

// OurKingInCheck reports whether the side to move has its king in check.
func (b *Board) OurKingInCheck() bool { return b.InCheck(b.sideToMove) }

// IsCapture reports whether the given move captures a piece, including en passant.
func IsCapture(m Move, b *Board) bool {
	return m.CapturedPiece() != NoPiece || m.Flags() == FlagEnPassant
}

// ParseMove converts a long-algebraic UCI move string (e2e4, e7e8q, 0000) into
// a fully-encoded Move against the current position, resolving the moved
// piece, any captured piece, promotion color and special-move flags.
func (b *Board) ParseMove(movestr string) (Move, error) {
	movestr = strings.TrimSpace(strings.ToLower(movestr))
	if movestr == "0000" {
		return 0, nil
	}
	if len(movestr) < 4 || len(movestr) > 5 {
		return 0, errors.New("invalid move length")
	}
	fromIdx, err := algebraicToIndex(movestr[0:2])
	if err != nil {
		return 0, err
	}
	toIdx, err := algebraicToIndex(movestr[2:4])
	if err != nil {
		return 0, err
	}
	from, to := Square(fromIdx), Square(toIdx)

	moved := b.pieces[int(from)]
	if moved == NoPiece {
		return 0, errors.New("no piece on origin square")
	}
	us := moved.Color()

	var promo Piece
	if len(movestr) == 5 {
		var pt PieceType
		switch movestr[4] {
		case 'q':
			pt = PieceTypeQueen
		case 'r':
			pt = PieceTypeRook
		case 'b':
			pt = PieceTypeBishop
		case 'n':
			pt = PieceTypeKnight
		default:
			return 0, errors.New("invalid promotion piece")
		}
		promo = PieceFromType(us, pt)
	}

	var flag uint8
	var captured Piece
	if typeOf(moved) == 1 && to == b.enPassantSquare && b.enPassantSquare != NoSquare {
		flag = FlagEnPassant
		if us == White {
			captured = BlackPawn
		} else {
			captured = WhitePawn
		}
	} else if typeOf(moved) == 6 && abs(int(to)-int(from)) == 2 {
		flag = FlagCastle
		captured = b.pieces[int(to)]
	} else {
		captured = b.pieces[int(to)]
	}

	return NewMove(from, to, moved, captured, promo, flag), nil
}

func algebraicToIndex(alg string) (int, error) {
	if len(alg) != 2 {
		return 0, errors.New("invalid algebraic square length")
	}
	file := alg[0]
	rank := alg[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, errors.New("invalid algebraic square")
	}
	return int(file-'a') + int(rank-'1')*8, nil
}
