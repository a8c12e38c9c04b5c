// Package mcts implements the opening/midgame move selector: a
// lazily-expanded Monte-Carlo tree search with a mobility-weighted UCB
// selection policy and a heuristic (non-uniform) rollout.
package mcts

import (
	"math"
	"math/rand"
	"time"

	"othello/bitboard"
	"othello/proto"
)

const (
	expansionThreshold = 5
	mobilityScale      = 0.3
	mobilityFadeCutoff = 64.0
	explorationConst   = 2.0
)

// node is one MonteNode. Each node exclusively owns its children; there
// are no back pointers, so selection is a plain recursive descent that
// mutates nodes in place on the way back up.
type node struct {
	board       bitboard.Board
	colorToMove proto.Color
	prevMove    proto.Move
	stoneSum    int
	canputDiff  int

	children    []*node
	isExpanded  bool
	isGameEnd   bool
	prevIsSkip  bool

	wins     int
	visits   int
	mobility int
}

func newNode(board bitboard.Board, colorToMove proto.Color, prevMove proto.Move, prevIsSkip bool) *node {
	return &node{
		board:       board,
		colorToMove: colorToMove,
		prevMove:    prevMove,
		stoneSum:    board.SumStones(),
		canputDiff:  board.CanputDiff(colorToMove),
		prevIsSkip:  prevIsSkip,
	}
}

// Decide runs playouts from the root until deadline, then returns the
// child with the most visits (ties: first). rng must not be shared across
// concurrent callers; each call to Decide should use its own generator.
func Decide(board bitboard.Board, color proto.Color, deadline time.Time, rng *rand.Rand) proto.Move {
	root := newNode(board, color, proto.Move{}, false)
	expand(root)

	for time.Now().Before(deadline) {
		playout(root, rng)
	}

	return bestChild(root).prevMove
}

// expand generates one child per legal move. If there are none, a single
// pass child is created instead, with color flipped and prevIsSkip set.
func expand(n *node) {
	n.isExpanded = true
	moves := n.board.ValidMoves(n.colorToMove)
	if len(moves) == 0 {
		child := n.board
		n.children = []*node{newNode(child, n.colorToMove.Opposite(), proto.Pass, true)}
		return
	}
	n.children = make([]*node, 0, len(moves))
	for _, m := range moves {
		child := n.board
		child.ApplyMove(m, n.colorToMove)
		n.children = append(n.children, newNode(child, n.colorToMove.Opposite(), m, false))
	}
}

// playout runs one selection/expansion/rollout/backprop cycle from n and
// returns the result from n's perspective (mirroring the recursive shape
// so the caller at the root doesn't need a separate backprop pass).
func playout(n *node, rng *rand.Rand) (result int, mobilityDelta int) {
	if n.prevIsSkip && len(n.board.ValidMoves(n.colorToMove)) == 0 {
		n.isGameEnd = true
	}
	if n.isGameEnd {
		r := n.board.WinOrLose(n.colorToMove)
		n.wins += r
		n.visits++
		return r, 0
	}

	if !n.isExpanded {
		if n.visits > expansionThreshold {
			expand(n)
		} else {
			n.visits++
			r := rollout(n.board, n.colorToMove, rng)
			n.wins += r
			n.mobility += n.canputDiff
			return r, n.canputDiff
		}
	}

	child := selectChild(n)
	r, m := playout(child, rng)
	n.wins -= r
	n.visits++
	n.mobility -= m
	return -r, -m
}

// selectChild picks the child maximizing the mobility-weighted UCB score.
// An unvisited child always wins (treated as +infinity).
func selectChild(n *node) *node {
	best := n.children[0]
	bestScore := math.Inf(-1)
	for _, c := range n.children {
		if c.visits == 0 {
			return c
		}
		score := ucb(n, c)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

func ucb(parent, child *node) float64 {
	winRate := float64(child.wins) / float64(child.visits)
	bonus := mobilityBonus(child)
	exploration := explorationConst * math.Sqrt(2*math.Log(float64(parent.visits))/float64(child.visits))
	return (1 - winRate) - mobilityScale*bonus + exploration
}

func mobilityBonus(child *node) float64 {
	if float64(child.stoneSum) >= mobilityFadeCutoff {
		return 0
	}
	return (float64(child.mobility) / float64(child.visits)) * (1 - float64(child.stoneSum)/mobilityFadeCutoff)
}

// bestChild returns the most-visited child, first on ties.
func bestChild(n *node) *node {
	best := n.children[0]
	for _, c := range n.children[1:] {
		if c.visits > best.visits {
			best = c
		}
	}
	return best
}

// rollout simulates to the end of the game under the heuristic rollout
// policy and scores from color's perspective.
func rollout(board bitboard.Board, color proto.Color, rng *rand.Rand) int {
	b := board
	mover := color
	consecutivePasses := 0
	for consecutivePasses < 2 {
		moves := b.ValidMoves(mover)
		if len(moves) == 0 {
			consecutivePasses++
			mover = mover.Opposite()
			continue
		}
		consecutivePasses = 0
		m := pickRolloutMove(b, mover, moves, rng)
		b.ApplyMove(m, mover)
		mover = mover.Opposite()
	}
	return b.WinOrLose(color)
}

// pickRolloutMove applies the heuristic rollout policy: take the only
// move if forced; otherwise two independent 0.6 draws bias toward corners
// and toward mobility-maximizing moves before falling back to uniform.
func pickRolloutMove(b bitboard.Board, mover proto.Color, moves []proto.Move, rng *rand.Rand) proto.Move {
	if len(moves) == 1 {
		return moves[0]
	}

	corners := bitboard.CornerFilter(moves)
	if len(corners) > 0 && rng.Float64() < 0.6 {
		return corners[rng.Intn(len(corners))]
	}

	if rng.Float64() < 0.6 {
		best := moves[0]
		bestDiff := math.MinInt32
		for _, m := range moves {
			next := b
			next.ApplyMove(m, mover)
			diff := next.CanputDiff(mover)
			if diff > bestDiff {
				bestDiff = diff
				best = m
			}
		}
		return best
	}

	return moves[rng.Intn(len(moves))]
}
