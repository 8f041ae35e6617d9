package database

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context derived from parent that is canceled
// on SIGTERM or SIGINT. onSignal, if not nil, runs before the cancel so the
// caller can log which signal arrived. An import running under the context
// rolls back its destination transaction.
//
// The returned stop function releases the signal registration; call it once
// the guarded work is over.
func SetupSignalHandler(parent context.Context, onSignal func(os.Signal)) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		select {
		case sig := <-sigChan:
			if onSignal != nil {
				onSignal(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	stop := func() {
		cancel()
		signal.Stop(sigChan)
	}
	return ctx, stop
}
