// Package book provides opening-book lookup. The book itself is a flat
// KEY:VALUE text file (not this package's concern to curate); this package
// only knows how to parse it and probe it under board-rotation symmetry.
package book

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"

	"othello/proto"
)

//go:embed data/book.txt
var embeddedBook []byte

// Book maps a move-history key to a single next-move square. It is
// immutable after Load/LoadEmbedded and is safe for concurrent reads.
type Book struct {
	entries map[string]string
}

// Load parses a KEY:VALUE text book. Lines without exactly one colon are
// skipped rather than erroring, matching the "malformed line is silently
// dropped" contract consumers rely on.
func Load(data []byte) *Book {
	entries := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		entries[parts[0]] = parts[1]
	}
	return &Book{entries: entries}
}

// LoadEmbedded builds a Book from the file embedded at compile time.
func LoadEmbedded() *Book {
	return Load(embeddedBook)
}

// rotation is one of the four board symmetries the book is probed under.
type rotation int

const (
	rot0 rotation = iota
	rot90
	rot180
	rot270
)

var allRotations = [4]rotation{rot0, rot90, rot180, rot270}

// rotateSquare applies one of the four mappings named by the lookup rule:
// identity, (9-y,9-x), (9-x,9-y), (y,x).
func rotateSquare(file, rank int, r rotation) (int, int) {
	switch r {
	case rot90:
		return 9 - rank, 9 - file
	case rot180:
		return 9 - file, 9 - rank
	case rot270:
		return rank, file
	default:
		return file, rank
	}
}

func rotateToken(tok string, r rotation) string {
	if len(tok) != 2 {
		return tok
	}
	file := int(tok[0]-'A') + 1
	rank := int(tok[1]-'1') + 1
	rf, rr := rotateSquare(file, rank, r)
	return proto.Square(rf, rr).String()
}

// rotateKey rotates every 2-char square token of a history key, preserving
// order.
func rotateKey(key string, r rotation) string {
	var sb strings.Builder
	for i := 0; i+1 < len(key); i += 2 {
		sb.WriteString(rotateToken(key[i:i+2], r))
	}
	return sb.String()
}

// historyKey encodes a move history the way the book indexes it:
// concatenated 2-char square names. Pass and GiveUp are not indexable and
// contribute nothing.
func historyKey(history []proto.Move) string {
	var sb strings.Builder
	for _, m := range history {
		if m.Kind == proto.MoveSquare {
			sb.WriteString(m.String())
		}
	}
	return sb.String()
}

// Lookup probes the book for history under all four rotations, ascending,
// and returns the suggested next move. If more than one rotation hits, the
// last one checked wins. The caller is responsible for validating the
// result against the current legal moves; Lookup never does.
func (b *Book) Lookup(history []proto.Move) (proto.Move, bool) {
	if b == nil || len(b.entries) == 0 {
		return proto.Move{}, false
	}
	key := historyKey(history)
	if key == "" {
		return proto.Move{}, false
	}

	found := false
	var result proto.Move
	for _, r := range allRotations {
		rotated := rotateKey(key, r)
		val, ok := b.entries[rotated]
		if !ok {
			continue
		}
		m, err := proto.ParseMove(rotateToken(val, r))
		if err != nil {
			continue
		}
		result = m
		found = true
	}
	return result, found
}

// Size returns the number of loaded entries.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
