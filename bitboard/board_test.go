package bitboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"othello/proto"
)

func TestNewBoardStartingMobility(t *testing.T) {
	b := NewBoard()
	moves := b.ValidMoves(proto.Black)
	want := []proto.Move{
		proto.Square(3, 4),
		proto.Square(4, 3),
		proto.Square(5, 6),
		proto.Square(6, 5),
	}
	assert.ElementsMatch(t, want, moves)
}

func TestNewBoardCounts(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, 2, b.Count(proto.Black))
	assert.Equal(t, 2, b.Count(proto.White))
	assert.Equal(t, 4, b.SumStones())
}

func TestApplyMoveFlipsBracketedDiscs(t *testing.T) {
	b := NewBoard()
	b.ApplyMove(proto.Square(5, 6), proto.Black)
	assert.Equal(t, 4, b.Count(proto.Black))
	assert.Equal(t, 1, b.Count(proto.White))
}

func TestApplyMoveFlipsAllEightDirections(t *testing.T) {
	var b Board
	// One white disc and, two squares further out, one black anchor in each
	// of the 8 geometric directions from (4,4) — no square is shared between
	// directions, so each flip run is exactly one disc long.
	b.White = squareBit(5, 4) | squareBit(3, 4) | squareBit(4, 5) | squareBit(4, 3) |
		squareBit(5, 5) | squareBit(3, 3) | squareBit(3, 5) | squareBit(5, 3)
	b.Black = squareBit(6, 4) | squareBit(2, 4) | squareBit(4, 6) | squareBit(4, 2) |
		squareBit(6, 6) | squareBit(2, 2) | squareBit(2, 6) | squareBit(6, 2)
	b.ApplyMove(proto.Square(4, 4), proto.Black)
	assert.Equal(t, 0, b.Count(proto.White), "every bracketed white disc must flip")
}

func TestCheckValidMovePassWhenNoMoves(t *testing.T) {
	b := Board{Black: ^uint64(0), White: 0}
	assert.True(t, b.CheckValidMove(proto.Pass, proto.White))
	assert.True(t, b.CheckValidMove(proto.Pass, proto.Black), "a full board leaves neither side a legal square")
}

func TestWinOrLoseAndCanputDiffOnTerminalBoard(t *testing.T) {
	b := Board{Black: terminalBlackMask(35), White: terminalWhiteMask(29)}
	assert.Equal(t, 1, b.WinOrLose(proto.Black))
	assert.Equal(t, 64, b.CanputDiff(proto.Black))
	assert.Empty(t, b.ValidMoves(proto.Black))
	assert.Empty(t, b.ValidMoves(proto.White))
}

func TestCanputDiffAntisymmetric(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, b.CanputDiff(proto.Black), -b.CanputDiff(proto.White))
}

func TestCornerFilter(t *testing.T) {
	moves := []proto.Move{proto.Square(1, 1), proto.Square(3, 4), proto.Square(8, 8), proto.Square(1, 8)}
	corners := CornerFilter(moves)
	assert.ElementsMatch(t, []proto.Move{proto.Square(1, 1), proto.Square(8, 8), proto.Square(1, 8)}, corners)
}

// terminalBlackMask and terminalWhiteMask build a full board (no empty
// squares, hence zero mobility for both sides) with the given disc counts,
// packing black from bit 0 upward and white filling the rest.
func terminalBlackMask(count int) uint64 {
	var mask uint64
	for i := 0; i < count; i++ {
		mask |= uint64(1) << i
	}
	return mask
}

func terminalWhiteMask(count int) uint64 {
	var mask uint64
	for i := 64 - count; i < 64; i++ {
		mask |= uint64(1) << i
	}
	return mask
}
