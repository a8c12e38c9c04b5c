package negamax

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"othello/bitboard"
	"othello/proto"
)

func squareBit(file, rank int) uint64 {
	return uint64(1) << ((file-1)*8 + (rank - 1))
}

// TestDecideModeAForcedWin builds a board with exactly one empty square
// that Black can play to flip the board's lone White disc, producing an
// immediately terminal, immediately winning position: the minimal case of
// the "forced win, short-circuit to +1" rule.
func TestDecideModeAForcedWin(t *testing.T) {
	empty := squareBit(1, 3)
	whiteDisc := squareBit(1, 2)
	board := bitboard.Board{
		White: whiteDisc,
		Black: ^uint64(0) &^ empty &^ whiteDisc,
	}

	result := DecideModeA(context.Background(), board, proto.Black, time.Now().Add(time.Second))
	assert.False(t, result.Unknown)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, proto.Square(1, 3), result.Move)
}

func TestDecideModeAExpiredDeadlineIsUnknown(t *testing.T) {
	board := bitboard.NewBoard()
	result := DecideModeA(context.Background(), board, proto.Black, time.Now().Add(-time.Hour))
	assert.True(t, result.Unknown)
}

func TestDecideModeBExpiredDeadlineIsUnknown(t *testing.T) {
	board := bitboard.NewBoard()
	result := DecideModeB(context.Background(), board, proto.Black, time.Now().Add(-time.Hour))
	assert.True(t, result.Unknown)
}

func TestResolveModeAWinShortCircuitsOverMissing(t *testing.T) {
	outcomes := []rootOutcome{
		{move: proto.Square(1, 1), score: -1, ok: true},
		{move: proto.Square(2, 2), score: 1, ok: true},
		{move: proto.Square(3, 3), ok: false},
	}
	result := resolveModeA(outcomes)
	assert.False(t, result.Unknown)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, proto.Square(2, 2), result.Move)
}

func TestResolveModeADrawPreferredOverMissingWhenNoWin(t *testing.T) {
	outcomes := []rootOutcome{
		{move: proto.Square(1, 1), score: -1, ok: true},
		{move: proto.Square(2, 2), score: 0, ok: true},
		{move: proto.Square(3, 3), ok: false},
	}
	result := resolveModeA(outcomes)
	assert.False(t, result.Unknown)
	assert.Equal(t, 0, result.Score)
}

func TestResolveModeAMissingForcesUnknownWhenBestIsNegative(t *testing.T) {
	outcomes := []rootOutcome{
		{move: proto.Square(1, 1), score: -1, ok: true},
		{move: proto.Square(3, 3), ok: false},
	}
	result := resolveModeA(outcomes)
	assert.True(t, result.Unknown)
}

func TestResolveModeBAnyMissingIsUnknown(t *testing.T) {
	outcomes := []rootOutcome{
		{move: proto.Square(1, 1), score: 10, ok: true},
		{move: proto.Square(2, 2), ok: false},
	}
	result := resolveModeB(outcomes)
	assert.True(t, result.Unknown)
}

func TestResolveModeBPicksGreatestScore(t *testing.T) {
	outcomes := []rootOutcome{
		{move: proto.Square(1, 1), score: -10, ok: true},
		{move: proto.Square(2, 2), score: 12, ok: true},
		{move: proto.Square(3, 3), score: 4, ok: true},
	}
	result := resolveModeB(outcomes)
	assert.False(t, result.Unknown)
	assert.Equal(t, 12, result.Score)
	assert.Equal(t, proto.Square(2, 2), result.Move)
}

func TestOrderByMobilitySortsDescending(t *testing.T) {
	board := bitboard.NewBoard()
	moves := board.ValidMoves(proto.Black)
	ordered := orderByMobility(board, proto.Black, moves)
	assert.Len(t, ordered, len(moves))

	prevDiff := 1 << 30
	for _, m := range ordered {
		child := board
		child.ApplyMove(m, proto.Black)
		diff := child.CanputDiff(proto.Black)
		assert.LessOrEqual(t, diff, prevDiff)
		prevDiff = diff
	}
}
