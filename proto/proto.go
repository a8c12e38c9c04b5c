// Package proto holds the vocabulary shared between the decision core and
// the match-server session layer: colors, moves, and the wire commands
// exchanged over the TCP line protocol.
package proto

import "fmt"

// Color identifies a side. ColorNone and ColorSentinel never reach the
// decision core; they exist only so display code has something to print
// for an empty square.
type Color int

const (
	Black Color = iota
	White
	ColorNone
	ColorSentinel
)

// Opposite returns the other playing color. It is the identity on the
// non-playing variants.
func (c Color) Opposite() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return c
	}
}

func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	case ColorNone:
		return "None"
	case ColorSentinel:
		return "Sentinel"
	default:
		return "Unknown"
	}
}

// Wl is the outcome of a finished game, as reported by the match server.
type Wl int

const (
	Win Wl = iota
	Lose
	Tie
)

// MoveKind tags the variant held by a Move.
type MoveKind int

const (
	MoveSquare MoveKind = iota
	MovePass
	MoveGiveUp
)

// Move is a tagged union: a Square play, a Pass, or a GiveUp (resignation,
// used internally to mean "no result"). File and Rank are only meaningful
// when Kind == MoveSquare and are both in 1..=8.
type Move struct {
	Kind MoveKind
	File int
	Rank int
}

// Square builds a Move for the given 1-indexed file/rank.
func Square(file, rank int) Move {
	return Move{Kind: MoveSquare, File: file, Rank: rank}
}

// Pass is the move played when and only when the mover has no legal square.
var Pass = Move{Kind: MovePass}

// GiveUp marks resignation / "no result"; it is never returned to a caller
// of the decision core.
var GiveUp = Move{Kind: MoveGiveUp}

func (m Move) String() string {
	switch m.Kind {
	case MovePass:
		return "PASS"
	case MoveGiveUp:
		return "GIVEUP"
	default:
		return fmt.Sprintf("%c%d", 'A'+m.File-1, m.Rank)
	}
}

// PlayerStat is one line of the BYE command's final standings.
type PlayerStat struct {
	PlayerName string
	Score      int
	Wins       uint32
	Loses      uint32
}

func (p PlayerStat) String() string {
	return fmt.Sprintf("%s: %d (Win %d, Lose %d)", p.PlayerName, p.Score, p.Wins, p.Loses)
}

// RecvKind tags the variant held by a RecvCommand.
type RecvKind int

const (
	RecvStart RecvKind = iota
	RecvMove
	RecvAck
	RecvEnd
	RecvBye
)

// RecvCommand is a command received from the match server.
type RecvCommand struct {
	Kind RecvKind

	// RecvStart
	Color          Color
	OpponentName   string
	AssignedTimeMs int

	// RecvMove
	Move Move

	// RecvEnd
	Result             Wl
	YourStoneCount     uint32
	OpponentStoneCount uint32
	Reason             string

	// RecvBye
	Stats []PlayerStat
}

// SendCommand is a command sent to the match server.
type SendCommand struct {
	open   bool
	player string
	move   Move
}

// Open builds the initial "OPEN <name>" handshake command.
func Open(playerName string) SendCommand {
	return SendCommand{open: true, player: playerName}
}

// SendMove builds a "MOVE <move>" command.
func SendMove(m Move) SendCommand {
	return SendCommand{move: m}
}

func (c SendCommand) String() string {
	if c.open {
		return fmt.Sprintf("OPEN %s\n", c.player)
	}
	return fmt.Sprintf("MOVE %s\n", c.move)
}
