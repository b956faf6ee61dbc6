package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ContextWithSignals returns a context cancelled on SIGINT or SIGTERM, so an
// interrupted run stops at the next batch boundary instead of mid-write.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
