package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	lcgin "github.com/fwojciec/linkcrawl/gin"
	lcslog "github.com/fwojciec/linkcrawl/slog"
)

// Run executes the serve command. It blocks until interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	extractor := lcslog.NewLoggingExtractor(deps.Crawler, deps.Logger)

	srv := lcgin.NewServer(extractor,
		lcgin.WithArticleService(deps.Articles),
		lcgin.WithLogger(deps.Logger),
	)
	srv.Open(c.Addr)
	fmt.Fprintf(deps.Stdout, "listening on %s\n", c.Addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case <-deps.Ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Close(shutdownCtx)
}
