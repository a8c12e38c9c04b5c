package proto

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse decodes one line of the match-server wire protocol. The accepted
// commands are START, MOVE, ACK, END, and BYE; anything else is an error.
func Parse(line string) (RecvCommand, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return RecvCommand{}, fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "START":
		return parseStart(fields[1:])
	case "END":
		return parseEnd(fields[1:])
	case "MOVE":
		return parseMoveCommand(fields[1:])
	case "ACK":
		return parseAck(fields[1:])
	case "BYE":
		return parseBye(fields[1:])
	default:
		return RecvCommand{}, fmt.Errorf("invalid command %q", fields[0])
	}
}

func parseStart(fields []string) (RecvCommand, error) {
	if len(fields) < 3 {
		return RecvCommand{}, fmt.Errorf("START: expected black/white, name, time, got %v", fields)
	}
	color, err := parseColor(fields[0])
	if err != nil {
		return RecvCommand{}, fmt.Errorf("START: %w", err)
	}
	assignedTimeMs, err := strconv.Atoi(fields[2])
	if err != nil {
		return RecvCommand{}, fmt.Errorf("START: expected integer, got %q", fields[2])
	}
	return RecvCommand{
		Kind:           RecvStart,
		Color:          color,
		OpponentName:   fields[1],
		AssignedTimeMs: assignedTimeMs,
	}, nil
}

func parseEnd(fields []string) (RecvCommand, error) {
	if len(fields) < 4 {
		return RecvCommand{}, fmt.Errorf("END: expected win/lose/tie, n, m, reason, got %v", fields)
	}
	result, err := parseWl(fields[0])
	if err != nil {
		return RecvCommand{}, fmt.Errorf("END: %w", err)
	}
	yourCount, err := parseUint(fields[1])
	if err != nil {
		return RecvCommand{}, fmt.Errorf("END: expected unsigned integer, got %q", fields[1])
	}
	oppCount, err := parseUint(fields[2])
	if err != nil {
		return RecvCommand{}, fmt.Errorf("END: expected unsigned integer, got %q", fields[2])
	}
	return RecvCommand{
		Kind:               RecvEnd,
		Result:             result,
		YourStoneCount:     yourCount,
		OpponentStoneCount: oppCount,
		Reason:             strings.Join(fields[3:], " "),
	}, nil
}

func parseMoveCommand(fields []string) (RecvCommand, error) {
	if len(fields) < 1 {
		return RecvCommand{}, fmt.Errorf("MOVE: expected a move, got EOF")
	}
	m, err := ParseMove(fields[0])
	if err != nil {
		return RecvCommand{}, fmt.Errorf("MOVE: %w", err)
	}
	return RecvCommand{Kind: RecvMove, Move: m}, nil
}

func parseAck(fields []string) (RecvCommand, error) {
	if len(fields) < 1 {
		return RecvCommand{}, fmt.Errorf("ACK: expected integer, got EOF")
	}
	ms, err := strconv.Atoi(fields[0])
	if err != nil {
		return RecvCommand{}, fmt.Errorf("ACK: expected integer, got %q", fields[0])
	}
	return RecvCommand{Kind: RecvAck, AssignedTimeMs: ms}, nil
}

func parseBye(fields []string) (RecvCommand, error) {
	var stats []PlayerStat
	for len(fields) > 0 {
		if len(fields) < 4 {
			return RecvCommand{}, fmt.Errorf("BYE: incomplete player stat in %v", fields)
		}
		score, err := strconv.Atoi(fields[1])
		if err != nil {
			return RecvCommand{}, fmt.Errorf("BYE: expected integer, got %q", fields[1])
		}
		wins, err := parseUint(fields[2])
		if err != nil {
			return RecvCommand{}, fmt.Errorf("BYE: expected unsigned integer, got %q", fields[2])
		}
		loses, err := parseUint(fields[3])
		if err != nil {
			return RecvCommand{}, fmt.Errorf("BYE: expected unsigned integer, got %q", fields[3])
		}
		stats = append(stats, PlayerStat{
			PlayerName: fields[0],
			Score:      score,
			Wins:       wins,
			Loses:      loses,
		})
		fields = fields[4:]
	}
	return RecvCommand{Kind: RecvBye, Stats: stats}, nil
}

func parseColor(s string) (Color, error) {
	switch s {
	case "BLACK":
		return Black, nil
	case "WHITE":
		return White, nil
	default:
		return 0, fmt.Errorf("expected BLACK/WHITE, got %q", s)
	}
}

func parseWl(s string) (Wl, error) {
	switch s {
	case "WIN":
		return Win, nil
	case "LOSE":
		return Lose, nil
	case "TIE":
		return Tie, nil
	default:
		return 0, fmt.Errorf("expected WIN/LOSE/TIE, got %q", s)
	}
}

func parseUint(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// ParseMove decodes a single move token: "PASS", "GIVEUP", or a two-character
// square name such as "F5".
func ParseMove(s string) (Move, error) {
	if s == "PASS" {
		return Pass, nil
	}
	if s == "GIVEUP" {
		return GiveUp, nil
	}
	if len(s) == 2 {
		x, y := s[0], s[1]
		if x >= 'A' && x <= 'H' && y >= '1' && y <= '8' {
			return Square(int(x-'A')+1, int(y-'1')+1), nil
		}
	}
	return Move{}, fmt.Errorf("expected a move, got %q", s)
}
