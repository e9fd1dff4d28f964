// Playhead is the realtime audio playback backend of a transcript editor.
// It plays one recorded file according to an externally supplied edit list,
// speaking line-delimited JSON over stdio: commands in, events out.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/playhead-io/playhead/bridge"
	"github.com/playhead-io/playhead/config"
	"github.com/playhead-io/playhead/player"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		hclog.Default().Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, logFile := newLogger(cfg)
	if logFile != nil {
		defer logFile.Close()
	}

	device := player.NewPortAudioDevice()
	if err := device.Initialize(); err != nil {
		logger.Error("failed to initialize audio device", "error", err)
		os.Exit(1)
	}
	defer device.Terminate()

	emitter := bridge.NewEmitter(os.Stdout)
	p := player.New(device, emitter, logger.Named("player"), cfg.FramesPerBuffer)
	dispatcher := bridge.NewDispatcher(os.Stdin, emitter, p, logger.Named("bridge"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// The dispatcher blocks in a stdin read; a signal alone would never
	// unblock it. Closing stdin on cancellation does.
	context.AfterFunc(ctx, func() {
		os.Stdin.Close()
	})

	g.Go(func() error {
		return p.Run(ctx)
	})
	g.Go(func() error {
		// stdin EOF means the host editor is gone; shut everything down.
		defer stop()
		return dispatcher.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("shutting down with error", "error", err)
		p.Close()
		os.Exit(1)
	}
	p.Close()
	logger.Info("playhead stopped")
}

// newLogger builds the diagnostic logger. stdout belongs to the event
// protocol, so logs go to the configured debug file or to stderr.
func newLogger(cfg *config.Config) (hclog.Logger, *os.File) {
	var out io.Writer = os.Stderr
	var f *os.File

	if path := cfg.LogPath(); path != "" {
		_ = os.MkdirAll(cfg.DebugDir, 0o755)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			out = file
			f = file
		}
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "playhead",
		Level:  hclog.LevelFromString(cfg.LogLevel),
		Output: out,
	}), f
}
