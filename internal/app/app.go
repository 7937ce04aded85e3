// Package app wires together logger construction and the server
// lifecycle for an already loaded config: the init-logger -> bind ->
// serve -> signal-wait -> shutdown part of the same shape as the proxy's cmd/gate.Run and
// the original Rust implementation's several main.rs revisions
// (SPEC_FULL §10.D, §12).
package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/embervale/ember/internal/config"
	"github.com/embervale/ember/pkg/server"
	"github.com/embervale/ember/pkg/world"
)

// Run builds the logger from cfg, starts the server, and blocks until
// SIGINT/SIGTERM/SIGHUP or an internal shutdown.
func Run(cfg config.Config) error {
	log, err := buildLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	w := world.New(0)
	srv := server.New(cfg, log, w)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	log.Info("ember started",
		zap.String("version", "1.21.5"),
		zap.Int("protocol", server.ProtocolVersion),
		zap.String("bind_address", cfg.BindAddress),
		zap.Int("max_players", cfg.MaxPlayers),
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer func() { signal.Stop(sig); close(sig) }()

	select {
	case s := <-sig:
		log.Info("received shutdown signal", zap.String("signal", s.String()))
	case <-srv.Done():
		log.Warn("accept loop exited unexpectedly")
	}

	srv.Stop()
	log.Info("ember stopped")
	return nil
}

// buildLogger matches the proxy's initLogger: production config
// normally, development config under --debug, console encoding with
// ISO8601 timestamps and capital colored levels.
func buildLogger(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
