package dispatch

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"othello/bitboard"
	"othello/book"
	"othello/proto"
)

func squareBit(file, rank int) uint64 {
	return uint64(1) << ((file-1)*8 + (rank - 1))
}

func TestDecideOpeningRoutesToMCTS(t *testing.T) {
	board := bitboard.NewBoard()
	m := Decide(board, proto.Black, nil, book.Load(nil), 20*time.Millisecond)

	want := []proto.Move{
		proto.Square(3, 4),
		proto.Square(4, 3),
		proto.Square(5, 6),
		proto.Square(6, 5),
	}
	assert.Contains(t, want, m)
}

func TestDecideSingleLegalMoveShortCircuits(t *testing.T) {
	empty := squareBit(1, 3)
	whiteDisc := squareBit(1, 2)
	board := bitboard.Board{
		White: whiteDisc,
		Black: ^uint64(0) &^ empty &^ whiteDisc,
	}
	// With a nil book and a zero time budget there is nothing to consult
	// and no time to search; the single legal square is still the answer.
	m := Decide(board, proto.Black, nil, nil, 0)
	assert.Equal(t, proto.Square(1, 3), m)
}

func TestDecideNoLegalMoveReturnsPass(t *testing.T) {
	board := bitboard.Board{Black: ^uint64(0), White: 0}
	m := Decide(board, proto.White, nil, nil, 0)
	assert.Equal(t, proto.Pass, m)
}

func TestDecideBookHitUnderRealOpeningReply(t *testing.T) {
	board := bitboard.NewBoard()
	board.ApplyMove(proto.Square(6, 5), proto.Black) // F5
	history := []proto.Move{proto.Square(6, 5)}
	b := book.Load([]byte("F5:D6\n"))

	m := Decide(board, proto.White, history, b, time.Second)
	assert.Equal(t, proto.Square(4, 6), m) // D6
}

func TestDecideIgnoresIllegalBookSuggestion(t *testing.T) {
	board := bitboard.NewBoard()
	board.ApplyMove(proto.Square(6, 5), proto.Black) // F5
	history := []proto.Move{proto.Square(6, 5)}
	// A1 is never a legal reply this early; dispatch must silently ignore
	// the suggestion and fall through to search instead of returning it.
	b := book.Load([]byte("F5:A1\n"))

	m := Decide(board, proto.White, history, b, 20*time.Millisecond)
	assert.True(t, board.CheckValidMove(m, proto.White))
}

func TestDecideEndgameFallsBackToMCTSWhenModeATimesOut(t *testing.T) {
	board := bitboard.NewBoard()
	rng := rand.New(rand.NewSource(7))
	m := decideEndgame(board, proto.Black, 43, time.Now().Add(-time.Hour), rng)
	assert.True(t, board.CheckValidMove(m, proto.Black))
}
