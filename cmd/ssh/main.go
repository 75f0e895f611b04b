package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/slipstream/internal/config"
	"github.com/tomz197/slipstream/internal/draw"
	applog "github.com/tomz197/slipstream/internal/logging"
	"github.com/tomz197/slipstream/internal/loop/client"
	"github.com/tomz197/slipstream/internal/loop/server"
	"github.com/tomz197/slipstream/internal/web"
)

const listenerShutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	printConfig := flag.Bool("print-config", false, "print the effective configuration and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *printConfig {
		if err := cfg.WriteYAML(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, closeLog, err := applog.Open(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := serve(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		closeLog()
		os.Exit(1)
	}
}

func serve(cfg *config.Config, logger *log.Logger) error {
	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config",
		"host", cfg.Server.Host, "port", cfg.Server.Port,
		"hostKeyPath", cfg.Server.HostKeyPath, "workingDir", workingDir)

	// Shared by all sessions: presence, leaderboard and shutdown notices.
	hub := server.NewServer(server.Options{
		Leaderboard: cfg.Server.Leaderboard,
		Logger:      logger.WithPrefix("hub"),
	})

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		wish.WithMiddleware(
			gameMiddleware(hub, cfg, logger),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger.WithPrefix("ssh"), log.InfoLevel),
		),
		// TCP_NODELAY keeps key presses from being batched.
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.Server.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.Server.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	var site *http.Server
	if cfg.Server.WebAddr != "" {
		site = &http.Server{
			Addr: cfg.Server.WebAddr,
			Handler: web.NewHandler(hub, web.Options{
				SSHHost: cfg.Server.DisplayHost,
				SSHPort: cfg.Server.Port,
				Logger:  logger.WithPrefix("web"),
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		logger.Info("starting ssh server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	})
	if site != nil {
		g.Go(func() error {
			logger.Info("starting web server", "addr", site.Addr)
			if err := site.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("web server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down", "players", hub.Players())

		// Players get the shutdown screen and a chance to leave on their own.
		hub.Shutdown(cfg.Server.ShutdownGrace)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), listenerShutdownTimeout)
		defer cancel()
		var errs []error
		if site != nil {
			errs = append(errs, site.Shutdown(shutdownCtx))
		}
		errs = append(errs, s.Shutdown(shutdownCtx))
		return errors.Join(errs...)
	})

	return g.Wait()
}

// gameMiddleware runs one client, with its own simulation, per session.
func gameMiddleware(hub *server.Server, cfg *config.Config, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			sessLog := logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
			sessLog.Info("new game session", "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			c, err := client.NewClient(hub, bufio.NewReader(sess), sess, client.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Username:     sess.User(),
				Profile:      profileFor(pty.Term, sess.Environ()),
				IdleTimeout:  cfg.Server.IdleTimeout,
				Config:       cfg,
				Logger:       sessLog,
			})
			if errors.Is(err, server.ErrServerClosed) {
				fmt.Fprintln(sess, "The server is shutting down. Please try again later.")
				return
			}
			if err != nil {
				sessLog.Error("session setup failed", "err", err)
				return
			}

			if err := c.Run(sess.Context()); err != nil {
				sessLog.Error("game error", "err", err)
			}

			sessLog.Info("session ended")
			next(sess)
		}
	}
}

// profileFor guesses the remote color support from the pty term name and
// the forwarded environment.
func profileFor(term string, environ []string) termenv.Profile {
	for _, kv := range environ {
		if kv == "COLORTERM=truecolor" || kv == "COLORTERM=24bit" {
			return termenv.TrueColor
		}
	}
	switch {
	case term == "" || term == "dumb":
		return termenv.Ascii
	case strings.Contains(term, "256color"):
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
