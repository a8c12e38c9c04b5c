// Package negamax implements the endgame solver: a full-depth negamax
// search (no alpha-beta, no transposition table, no iterative deepening —
// those are explicitly out of scope) run root-parallel and bounded by a
// wall-clock deadline. Two leaf evaluations are offered: Mode A proves
// win/draw/loss, Mode B reads the exact disc-difference outcome.
package negamax

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"othello/bitboard"
	"othello/proto"
)

const (
	sentinelA = -64 // Mode A: below any legal win_or_lose value
	sentinelB = -65 // Mode B: below any legal disc-difference value
)

// Result is what a root Decide call produces. Unknown is true when the
// deadline was hit before every root branch finished, unless Mode A already
// has a completed branch proving a win or a draw; it is also true when there
// are no root moves at all. Callers must not use Move or Score in that case.
type Result struct {
	Move    proto.Move
	Score   int
	Unknown bool
}

type rootOutcome struct {
	move  proto.Move
	score int
	ok    bool
}

// DecideModeA runs the win/draw/loss solver. Preconditions: color has at
// least one legal move on b (callers — the dispatch policy — check this
// before calling; an empty move list here would produce Result{Unknown:
// true} from resolveModeA's nil best, not a panic).
func DecideModeA(ctx context.Context, b bitboard.Board, color proto.Color, deadline time.Time) Result {
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	moves := b.ValidMoves(color)
	log.Debug().Int("stones", b.SumStones()).Int("root_moves", len(moves)).Msg("negamax mode a start")

	outcomes := make([]rootOutcome, len(moves))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			child := b
			child.ApplyMove(m, color)
			val, ok := searchA(gctx, child, color.Opposite(), m)
			if ok {
				val = -val
			}
			outcomes[i] = rootOutcome{move: m, score: val, ok: ok}
			return nil
		})
	}
	_ = g.Wait()

	result := resolveModeA(outcomes)
	log.Debug().Int("score", result.Score).Bool("unknown", result.Unknown).Msg("negamax mode a done")
	return result
}

// DecideModeB runs the perfect-read disc-difference solver; same
// root-parallel, deadline-bounded shape as Mode A, no short-circuit and
// no move ordering.
func DecideModeB(ctx context.Context, b bitboard.Board, color proto.Color, deadline time.Time) Result {
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	moves := b.ValidMoves(color)
	log.Debug().Int("stones", b.SumStones()).Int("root_moves", len(moves)).Msg("negamax mode b start")

	outcomes := make([]rootOutcome, len(moves))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			child := b
			child.ApplyMove(m, color)
			val, ok := searchB(gctx, child, color.Opposite(), m)
			if ok {
				val = -val
			}
			outcomes[i] = rootOutcome{move: m, score: val, ok: ok}
			return nil
		})
	}
	_ = g.Wait()

	result := resolveModeB(outcomes)
	log.Debug().Int("score", result.Score).Bool("unknown", result.Unknown).Msg("negamax mode b done")
	return result
}

// resolveModeA implements the root-dispatch rule exactly: a proven win
// wins outright the instant it's seen, a proven draw among completed
// tasks is returned next, and only then does a missing (timed-out) root
// task force an unknown verdict.
func resolveModeA(outcomes []rootOutcome) Result {
	var best *rootOutcome
	anyMissing := false
	for i := range outcomes {
		o := &outcomes[i]
		if !o.ok {
			anyMissing = true
			continue
		}
		if o.score == 1 {
			return Result{Move: o.move, Score: 1}
		}
		if best == nil || o.score > best.score {
			best = o
		}
	}
	if best == nil {
		return Result{Unknown: true}
	}
	if best.score == 0 {
		return Result{Move: best.move, Score: 0}
	}
	if anyMissing {
		return Result{Unknown: true}
	}
	return Result{Move: best.move, Score: best.score}
}

// resolveModeB requires every root task to finish; any miss is unknown.
func resolveModeB(outcomes []rootOutcome) Result {
	if len(outcomes) == 0 {
		return Result{Unknown: true}
	}
	best := outcomes[0]
	for _, o := range outcomes {
		if !o.ok {
			return Result{Unknown: true}
		}
		if o.score > best.score {
			best = o
		}
	}
	return Result{Move: best.move, Score: best.score}
}

// searchA is the shared negamax recursion for Mode A: if stalled (no
// legal moves) it either scores the leaf or passes; otherwise it walks
// every child, short-circuiting the instant a proven win is found.
func searchA(ctx context.Context, b bitboard.Board, color proto.Color, prevMove proto.Move) (int, bool) {
	if ctx.Err() != nil {
		return 0, false
	}

	moves := b.ValidMoves(color)
	if len(moves) == 0 {
		if prevMove.Kind == proto.MovePass {
			return b.WinOrLose(color), true
		}
		val, ok := searchA(ctx, b, color.Opposite(), proto.Pass)
		if !ok {
			return 0, false
		}
		return -val, true
	}

	if b.SumStones() < 60 {
		moves = orderByMobility(b, color, moves)
	}

	maxEval := sentinelA
	for _, m := range moves {
		child := b
		child.ApplyMove(m, color)
		val, ok := searchA(ctx, child, color.Opposite(), m)
		if !ok {
			return 0, false
		}
		val = -val
		if val > maxEval {
			maxEval = val
		}
		if val == 1 {
			return 1, true
		}
	}
	return maxEval, true
}

// searchB is the perfect-read recursion: no short-circuit, no ordering.
func searchB(ctx context.Context, b bitboard.Board, color proto.Color, prevMove proto.Move) (int, bool) {
	if ctx.Err() != nil {
		return 0, false
	}

	moves := b.ValidMoves(color)
	if len(moves) == 0 {
		if prevMove.Kind == proto.MovePass {
			return b.DiffStones(color), true
		}
		val, ok := searchB(ctx, b, color.Opposite(), proto.Pass)
		if !ok {
			return 0, false
		}
		return -val, true
	}

	maxEval := sentinelB
	for _, m := range moves {
		child := b
		child.ApplyMove(m, color)
		val, ok := searchB(ctx, child, color.Opposite(), m)
		if !ok {
			return 0, false
		}
		val = -val
		if val > maxEval {
			maxEval = val
		}
	}
	return maxEval, true
}

// orderByMobility sorts moves descending by the post-move canput_diff of
// the moving side, ties keeping their original (bit-index ascending)
// order.
func orderByMobility(b bitboard.Board, color proto.Color, moves []proto.Move) []proto.Move {
	type scoredMove struct {
		move proto.Move
		diff int
	}
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		child := b
		child.ApplyMove(m, color)
		scored[i] = scoredMove{move: m, diff: child.CanputDiff(color)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].diff > scored[j].diff })

	ordered := make([]proto.Move, len(moves))
	for i, s := range scored {
		ordered[i] = s.move
	}
	return ordered
}
