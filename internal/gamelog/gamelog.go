// Package gamelog writes a human-readable per-move log file: one line per
// move, independent of the structured zerolog diagnostics the rest of the
// module emits.
package gamelog

import (
	"fmt"
	"os"
	"time"

	"othello/proto"
)

// MoveInfo is one move's worth of log data.
type MoveInfo struct {
	Timestamp time.Time
	Color     proto.Color
	Move      proto.Move
	Source    string // what chose the move, e.g. "dispatch"
	Score     string // e.g. "+1", "unknown", "-6"
	StoneSum  int
	Duration  time.Duration
}

// Logger writes move entries to a file from a single background
// goroutine, so callers never block on disk I/O mid-game.
type Logger struct {
	file  *os.File
	queue chan MoveInfo
	done  chan bool
}

// New opens filename for append and starts the background writer.
func New(filename string) (*Logger, error) {
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	l := &Logger{
		file:  file,
		queue: make(chan MoveInfo, 100),
		done:  make(chan bool),
	}
	go l.writer()
	return l, nil
}

// LogMove queues a move entry. If the queue is full the entry is dropped
// rather than blocking the decision loop.
func (l *Logger) LogMove(info MoveInfo) {
	if l == nil {
		return
	}
	select {
	case l.queue <- info:
	default:
		fmt.Fprintln(os.Stderr, "gamelog: queue full, dropping entry")
	}
}

// LogGameStart writes a separating banner line for a new game.
func (l *Logger) LogGameStart(opponent string, color proto.Color) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.file, "\n=== NEW GAME %s === vs %s as %s\n",
		time.Now().Format("2006-01-02 15:04:05"), opponent, color)
}

// Close drains the queue and closes the file.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	close(l.queue)
	<-l.done
	l.file.Close()
}

func (l *Logger) writer() {
	for info := range l.queue {
		fmt.Fprintf(l.file, "%s | %-6s | %-5s | src: %-9s | score: %-8s | stones: %-3d | t: %s\n",
			info.Timestamp.Format("01-02 15:04:05"),
			info.Color,
			info.Move,
			info.Source,
			info.Score,
			info.StoneSum,
			info.Duration.Round(time.Millisecond),
		)
	}
	l.done <- true
}
