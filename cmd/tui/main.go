package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"minesweeper/internal/config"
	"minesweeper/internal/game"
	"minesweeper/internal/session"
	"minesweeper/internal/tui"
)

func main() {
	cfg := config.Load()

	preset := flag.String("preset", "", "difficulty preset: beginner, intermediate or expert")
	width := flag.Int("width", cfg.Board.Width, "board width")
	height := flag.Int("height", cfg.Board.Height, "board height")
	mines := flag.Int("mines", cfg.Board.Mines, "number of mines")
	logFile := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	cfg.ConfigureLogging()
	// The terminal belongs to tview while the game runs.
	logrus.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		logrus.SetOutput(f)
	}

	if *preset != "" {
		p, ok := session.LookupPreset(*preset)
		if !ok {
			fmt.Fprintln(os.Stderr, "unknown preset:", *preset)
			os.Exit(2)
		}
		*width, *height, *mines = p.Width, p.Height, p.Mines
	}

	state, err := game.NewGame(*width, *height, *mines)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := tui.NewController(state).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "terminal ui:", err)
		os.Exit(1)
	}
}
