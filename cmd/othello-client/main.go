// Command othello-client connects to a match server, plays games using
// the dispatch policy as its decision core, and exits when the server
// sends BYE.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"othello/book"
	"othello/internal/gamelog"
	"othello/session"
)

func main() {
	host := flag.String("host", "127.0.0.1", "match server host")
	port := flag.Int("port", 3000, "match server port")
	name := flag.String("name", "Anon.", "player name announced to the server")
	bookPath := flag.String("book", "", "path to an opening book file (defaults to the embedded book)")
	logPath := flag.String("log", "", "path to a per-move game log file (disabled if empty)")
	verbose := flag.Bool("v", false, "verbose diagnostic logging")
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	b := loadBook(*bookPath)

	var gameLog *gamelog.Logger
	if *logPath != "" {
		var err error
		gameLog, err = gamelog.New(*logPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *logPath).Msg("failed to open game log")
		}
		defer gameLog.Close()
	}

	addr := net.JoinHostPort(*host, fmt.Sprint(*port))
	s, err := session.Dial(addr, *name, b, gameLog)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("failed to connect")
	}

	if err := s.Run(); err != nil {
		log.Fatal().Err(err).Msg("session ended with error")
	}
}

func loadBook(path string) *book.Book {
	if path == "" {
		return book.LoadEmbedded()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to read book file")
	}
	return book.Load(data)
}
