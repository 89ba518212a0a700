package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/webrecon/internal/engine"
)

// watchSignals stops the group on the first interrupt and cancels the run
// on the second. Where supported, pauseSignal toggles pause and resume.
// The returned function stops watching.
func watchSignals(g *engine.Group, cancel context.CancelFunc, w io.Writer, logger *slog.Logger) func() {
	sigs := []os.Signal{os.Interrupt, syscall.SIGTERM}
	if pauseSignal != nil {
		sigs = append(sigs, pauseSignal)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	done := make(chan struct{})

	go func() {
		stopping := false
		for {
			select {
			case <-done:
				return
			case sig := <-ch:
				handleSignal(sig, g, cancel, w, logger, &stopping)
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

func handleSignal(sig os.Signal, g *engine.Group, cancel context.CancelFunc, w io.Writer, logger *slog.Logger, stopping *bool) {
	if pauseSignal != nil && sig == pauseSignal {
		if g.TogglePause() {
			logger.Info("jobs paused", "signal", sig.String())
			fmt.Fprintln(w, "Paused. Send the same signal again to resume.")
		} else {
			logger.Info("jobs resumed", "signal", sig.String())
			fmt.Fprintln(w, "Resumed.")
		}
		return
	}

	if *stopping {
		logger.Warn("received second shutdown signal, aborting", "signal", sig.String())
		fmt.Fprintln(w, "Aborting.")
		cancel()
		return
	}
	*stopping = true
	logger.Info("received shutdown signal, stopping", "signal", sig.String())
	fmt.Fprintln(w, "Stopping... interrupt again to abort.")
	g.Stop()
}
