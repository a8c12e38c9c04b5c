package gamelog

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"othello/proto"
)

func TestLoggerWritesMoveLines(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "gamelog-*.log")
	assert.NoError(t, err)
	path := f.Name()
	f.Close()

	l, err := New(path)
	assert.NoError(t, err)

	l.LogGameStart("Opponent", proto.Black)
	l.LogMove(MoveInfo{
		Timestamp: time.Now(),
		Color:     proto.Black,
		Move:      proto.Square(6, 5),
		Source:    "Book",
		Score:     "+1",
		StoneSum:  4,
		Duration:  2 * time.Millisecond,
	})
	l.Close()

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "NEW GAME")
	assert.Contains(t, string(data), "Book")
	assert.Contains(t, string(data), "F5")
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.LogGameStart("x", proto.White)
		l.LogMove(MoveInfo{})
		l.Close()
	})
}
