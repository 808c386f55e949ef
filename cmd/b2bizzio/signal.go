package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// signalAwareContext is canceled by the first SIGINT or SIGTERM. Later
// signals are swallowed until the returned cancel func runs, so a second
// Ctrl-C cannot cut the shutdown drain short.
func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	stopped := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			close(stopped)
		})
	}

	go func() {
		defer signal.Stop(signals)
		for {
			select {
			case <-signals:
				cancel()
			case <-stopped:
				return
			}
		}
	}()

	return ctx, stop
}
