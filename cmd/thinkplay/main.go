package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"

	"github.com/alexcabrera/thinkplay/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()

	// Interrupting playback is a normal way to leave.
	errorHandler := func(w io.Writer, styles fang.Styles, err error) {
		if errors.Is(err, context.Canceled) {
			return
		}
		fang.DefaultErrorHandler(w, styles, err)
	}

	if err := fang.Execute(ctx, cmd,
		fang.WithVersion(version.Version),
		fang.WithErrorHandler(errorHandler),
	); err != nil && !errors.Is(err, context.Canceled) {
		os.Exit(1)
	}
}
