package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/loop"
	gameconfig "github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/render"
	"github.com/tomz197/invaders/internal/store"
)

const (
	defaultRenderer = "tcell"
	defaultAudio    = "on"
	defaultSaveName = ".invaders.msgpack"
	defaultVolume   = 0.4
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "invaders",
	})
	if level, err := log.ParseLevel(config.GetEnv("INVADERS_LOG_LEVEL", "warn")); err == nil {
		logger.SetLevel(level)
	}

	savePath := config.GetEnv("INVADERS_SAVE", defaultSavePath())
	renderer := config.GetEnv("INVADERS_RENDERER", defaultRenderer)
	fps := config.GetEnvFloat("INVADERS_FPS", gameconfig.ClientTargetFPS)
	if fps <= 0 {
		fps = gameconfig.ClientTargetFPS
	}

	rules := gameconfig.DefaultRules()
	file := store.NewFile(savePath)
	defer file.Close()
	session := game.NewSession(store.NewGateway(file, logger), rules)

	frontend, restore, err := openFrontend(renderer, rules)
	if err != nil {
		logger.Fatal("failed to open terminal", "renderer", renderer, "err", err)
	}

	// The terminal belongs to the game from here on; log to a file only if asked.
	logger.SetOutput(logOutput())

	var player audio.Player = audio.Silent{}
	if config.GetEnv("INVADERS_AUDIO", defaultAudio) == "on" {
		bp, err := audio.NewBeepPlayer(defaultVolume)
		if err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer bp.Close()
			player = bp
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = loop.Run(ctx, frontend, session, rules, loop.ClientOptions{
		Audio:     player,
		Logger:    logger,
		FrameTime: time.Duration(float64(time.Second) / fps),
	})
	restore()
	if err != nil {
		logger.SetOutput(os.Stderr)
		logger.Fatal("game error", "err", err)
	}
}

// openFrontend opens the requested renderer. restore undoes any terminal
// mode change the frontend needed.
func openFrontend(renderer string, rules gameconfig.Rules) (render.Frontend, func(), error) {
	switch renderer {
	case "ansi":
		fd := int(os.Stdin.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return nil, nil, err
		}
		restore := func() { _ = term.Restore(fd, oldState) }
		return render.NewANSI(bufio.NewReader(os.Stdin), os.Stdout, rules, render.ANSIOptions{}), restore, nil
	default:
		fe, err := render.NewTcell(nil, rules)
		if err != nil {
			return nil, nil, err
		}
		return fe, func() {}, nil
	}
}

func defaultSavePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultSaveName
	}
	return filepath.Join(home, defaultSaveName)
}

// logOutput is INVADERS_LOG_FILE when set, otherwise nowhere.
func logOutput() *os.File {
	path := config.GetEnv("INVADERS_LOG_FILE", "")
	if path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			return f
		}
	}
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return os.Stderr
	}
	return devNull
}
