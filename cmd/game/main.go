package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tomz197/slipstream/internal/config"
	"github.com/tomz197/slipstream/internal/logging"
	"github.com/tomz197/slipstream/internal/loop/client"
	"github.com/tomz197/slipstream/internal/loop/server"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	printConfig := flag.Bool("print-config", false, "print the effective configuration and exit")
	flag.Parse()

	if err := run(*configPath, *printConfig); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, printConfig bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if printConfig {
		return cfg.WriteYAML(os.Stdout)
	}

	// The terminal is the screen, so logs only go to a configured file.
	logger, closeLog, err := logging.Open(cfg.Log, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	profile := termenv.EnvColorProfile()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Local play keeps a private hub so the high score table works offline.
	hub := server.NewServer(server.Options{Leaderboard: cfg.Server.Leaderboard, Logger: logger})
	c, err := client.NewClient(hub, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: config.GetEnv("USER", ""),
		Profile:  profile,
		Config:   cfg,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	logger.Info("local game started", "profile", profile)
	return c.Run(ctx)
}
