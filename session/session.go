// Package session implements the match-server line protocol: the state
// machine that waits for a game to start, alternates turns with the
// decision core, and reports the result, one TCP connection at a time.
// This is the external collaborator the core's spec treats as a black
// box; the core itself (dispatch.Decide) knows nothing about sockets.
package session

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	"othello/bitboard"
	"othello/book"
	"othello/dispatch"
	"othello/internal/gamelog"
	"othello/proto"
)

type state int

const (
	stateWaitStart state = iota
	stateMyTurn
	stateOpTurn
	stateEndGame
	stateExit
)

// gameState is the per-game data carried between MyTurn/OpTurn
// transitions; it is reset every time a new START arrives.
type gameState struct {
	board          bitboard.Board
	color          proto.Color
	history        []proto.Move
	opponentName   string
	assignedTimeMs int
}

// endResult carries an EndGame transition's payload through to reportEnd.
type endResult struct {
	result             proto.Wl
	yourStoneCount     uint32
	opponentStoneCount uint32
	reason             string
}

// Session drives one game connection against the match server.
type Session struct {
	conn       net.Conn
	reader     *bufio.Reader
	writer     *bufio.Writer
	playerName string
	book       *book.Book
	gameLog    *gamelog.Logger
	timeBudget time.Duration
}

// New wraps an already-connected socket. The caller owns conn's lifetime.
func New(conn net.Conn, playerName string, b *book.Book, gameLog *gamelog.Logger) *Session {
	return &Session{
		conn:       conn,
		reader:     bufio.NewReader(conn),
		writer:     bufio.NewWriter(conn),
		playerName: playerName,
		book:       b,
		gameLog:    gameLog,
		timeBudget: dispatch.DefaultTimeToDecide,
	}
}

// Dial connects to addr and returns a ready Session.
func Dial(addr, playerName string, b *book.Book, gameLog *gamelog.Logger) (*Session, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return New(conn, playerName, b, gameLog), nil
}

// Run drives the session to completion: it sends the OPEN handshake,
// then loops the WaitStart/MyTurn/OpTurn/EndGame state machine until the
// server sends BYE.
func (s *Session) Run() error {
	if err := s.send(proto.Open(s.playerName)); err != nil {
		return err
	}

	st := stateWaitStart
	var game gameState
	var end endResult

	for {
		switch st {
		case stateWaitStart:
			next, g, err := s.waitStart()
			if err != nil {
				return err
			}
			if next == stateExit {
				return nil
			}
			st = next
			game = g

		case stateMyTurn:
			next, e, err := s.myTurn(&game)
			if err != nil {
				return err
			}
			st, end = next, e

		case stateOpTurn:
			next, e, err := s.opTurn(&game)
			if err != nil {
				return err
			}
			st, end = next, e

		case stateEndGame:
			s.reportEnd(end, game)
			st = stateWaitStart

		case stateExit:
			return nil
		}
	}
}

func (s *Session) waitStart() (state, gameState, error) {
	cmd, err := s.receive()
	if err != nil {
		return stateExit, gameState{}, err
	}
	switch cmd.Kind {
	case proto.RecvBye:
		log.Info().Msg("session: server said bye")
		for _, stat := range cmd.Stats {
			log.Info().Str("standing", stat.String()).Send()
		}
		return stateExit, gameState{}, nil
	case proto.RecvStart:
		g := gameState{
			board:          bitboard.NewBoard(),
			color:          cmd.Color,
			opponentName:   cmd.OpponentName,
			assignedTimeMs: cmd.AssignedTimeMs,
		}
		if s.gameLog != nil {
			s.gameLog.LogGameStart(g.opponentName, g.color)
		}
		if cmd.Color == proto.Black {
			return stateMyTurn, g, nil
		}
		return stateOpTurn, g, nil
	default:
		return stateExit, gameState{}, fmt.Errorf("expected START or BYE, got %+v", cmd)
	}
}

func (s *Session) myTurn(game *gameState) (state, endResult, error) {
	start := time.Now()
	m := dispatch.Decide(game.board, game.color, game.history, s.book, s.timeBudget)
	game.history = append(game.history, m)
	game.board.ApplyMove(m, game.color)

	if s.gameLog != nil {
		s.gameLog.LogMove(gamelog.MoveInfo{
			Timestamp: start,
			Color:     game.color,
			Move:      m,
			Source:    "dispatch",
			StoneSum:  game.board.SumStones(),
			Duration:  time.Since(start),
		})
	}

	if err := s.send(proto.SendMove(m)); err != nil {
		return stateExit, endResult{}, err
	}

	cmd, err := s.receive()
	if err != nil {
		return stateExit, endResult{}, err
	}
	switch cmd.Kind {
	case proto.RecvAck:
		game.assignedTimeMs = cmd.AssignedTimeMs
		return stateOpTurn, endResult{}, nil
	case proto.RecvEnd:
		return stateEndGame, endResult{
			result:             cmd.Result,
			yourStoneCount:     cmd.YourStoneCount,
			opponentStoneCount: cmd.OpponentStoneCount,
			reason:             cmd.Reason,
		}, nil
	default:
		return stateExit, endResult{}, fmt.Errorf("expected ACK or END, got %+v", cmd)
	}
}

func (s *Session) opTurn(game *gameState) (state, endResult, error) {
	cmd, err := s.receive()
	if err != nil {
		return stateExit, endResult{}, err
	}
	switch cmd.Kind {
	case proto.RecvMove:
		game.history = append(game.history, cmd.Move)
		game.board.ApplyMove(cmd.Move, game.color.Opposite())
		return stateMyTurn, endResult{}, nil
	case proto.RecvEnd:
		return stateEndGame, endResult{
			result:             cmd.Result,
			yourStoneCount:     cmd.YourStoneCount,
			opponentStoneCount: cmd.OpponentStoneCount,
			reason:             cmd.Reason,
		}, nil
	default:
		return stateExit, endResult{}, fmt.Errorf("expected MOVE or END, got %+v", cmd)
	}
}

func (s *Session) reportEnd(end endResult, game gameState) {
	var outcome string
	switch end.result {
	case proto.Win:
		outcome = "You win!"
	case proto.Lose:
		outcome = "You lose!"
	default:
		outcome = "Draw"
	}
	log.Info().
		Str("outcome", outcome).
		Uint32("your_stones", end.yourStoneCount).
		Uint32("opponent_stones", end.opponentStoneCount).
		Str("reason", end.reason).
		Str("player", s.playerName).
		Str("opponent", game.opponentName).
		Stringer("color", game.color).
		Msg("session: game finished")
}

func (s *Session) send(cmd proto.SendCommand) error {
	line := cmd.String()
	if _, err := s.writer.WriteString(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	log.Debug().Str("line", line).Msg("session: sent")
	return nil
}

func (s *Session) receive() (proto.RecvCommand, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return proto.RecvCommand{}, fmt.Errorf("read: %w", err)
	}
	log.Debug().Str("line", line).Msg("session: received")
	cmd, err := proto.Parse(line)
	if err != nil {
		return proto.RecvCommand{}, fmt.Errorf("parse %q: %w", line, err)
	}
	return cmd, nil
}
