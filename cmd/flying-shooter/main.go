package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/clinuxrulz/flying-shooter/audio"
	"github.com/clinuxrulz/flying-shooter/config"
	"github.com/clinuxrulz/flying-shooter/core"
)

func main() {
	// Panic Recovery: restore the terminal even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	// flying-shooter inspect <dump>...
	if len(os.Args) > 1 && os.Args[1] == "inspect" {
		if err := inspect(os.Stdout, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "flying-shooter: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(config.FilePath(), os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "flying-shooter: %v\n", err)
		os.Exit(2)
	}

	logFile := setupLogging(cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}
	log.Printf("config: %s", cfg)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	core.SetCrashReset(screen.Fini)

	cues := audio.NewCues(cfg.Mute)
	if err := cues.Initialize(); err != nil {
		// Non-fatal, the game runs without sound
		log.Printf("Audio initialization failed: %v", err)
	}

	g, err := newGame(cfg, screen, cues)
	if err == nil {
		err = g.run()
	}
	cues.Cleanup()
	screen.Fini()

	if err != nil {
		log.Printf("game: %v", err)
		fmt.Fprintf(os.Stderr, "flying-shooter: %v\n", err)
		os.Exit(1)
	}
}
