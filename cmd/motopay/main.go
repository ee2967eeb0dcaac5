// Command motopay is a terminal client for the MotoPay backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/motopay/portal/internal/cli"
	"github.com/motopay/portal/internal/config"
	"github.com/motopay/portal/tokens"
)

func main() {
	os.Exit(run())
}

func run() int {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	c := config.New()
	app := &cli.App{
		API:    config.APIClientConfig(c),
		Tokens: tokens.NewFileKV(c.GetTokenFile()),
		Out:    os.Stdout,
		Err:    os.Stderr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, cli.ErrUsage) || errors.Is(err, cli.ErrUnknownCommand) {
			return 2
		}
		return 1
	}
	return 0
}
