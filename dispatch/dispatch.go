// Package dispatch ties the bitboard, book, MCTS, and negamax engines
// together: the policy that decides which engine answers a given board.
package dispatch

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"othello/bitboard"
	"othello/book"
	"othello/mcts"
	"othello/negamax"
	"othello/proto"
)

const (
	// DefaultTimeToDecide is the time budget a session hands Decide for
	// every move; the server-assigned clock does not change it.
	DefaultTimeToDecide = 1400 * time.Millisecond

	mctsCutoff         = 42
	perfectReadEligible = 46
)

// Decide is the single entry point the session layer calls: given the
// current board, the color to move, the game history so far, a loaded
// book, and a time budget, it returns exactly one legal move. GiveUp is
// never returned.
func Decide(board bitboard.Board, color proto.Color, history []proto.Move, b *book.Book, timeToDecide time.Duration) proto.Move {
	moves := board.ValidMoves(color)
	if len(moves) == 0 {
		return proto.Pass
	}
	if len(moves) == 1 {
		return moves[0]
	}

	if m, ok := b.Lookup(history); ok && board.CheckValidMove(m, color) {
		log.Debug().Stringer("move", m).Msg("dispatch: book hit")
		return m
	}

	n := board.SumStones()
	deadline := time.Now().Add(timeToDecide)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if n <= mctsCutoff {
		return mcts.Decide(board, color, deadline, rng)
	}
	return decideEndgame(board, color, n, deadline, rng)
}

// decideEndgame implements §4.5 steps 7: Mode A first, with a Mode B
// fallback/preference when the board is deep enough (stone_sum >= 46) and
// an MCTS fallback whenever Mode A itself times out.
func decideEndgame(board bitboard.Board, color proto.Color, n int, deadline time.Time, rng *rand.Rand) proto.Move {
	ctx := context.Background()
	modeA := negamax.DecideModeA(ctx, board, color, deadline)

	if modeA.Unknown {
		log.Debug().Msg("dispatch: mode a unknown, falling back to mcts")
		return mcts.Decide(board, color, deadline, rng)
	}

	if modeA.Score == -1 {
		if n >= perfectReadEligible {
			modeB := negamax.DecideModeB(ctx, board, color, deadline)
			if !modeB.Unknown {
				return modeB.Move
			}
			return mcts.Decide(board, color, deadline, rng)
		}
		return mcts.Decide(board, color, deadline, rng)
	}

	// Draw or proven win.
	if n >= perfectReadEligible {
		modeB := negamax.DecideModeB(ctx, board, color, deadline)
		if !modeB.Unknown {
			return modeB.Move
		}
	}
	return modeA.Move
}
