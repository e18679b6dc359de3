// cmd/jukebot/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"jukebot/internal/bot"
	"jukebot/internal/config"
	"jukebot/internal/discord"
	"jukebot/internal/logging"
	"jukebot/internal/music/library"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags, err := config.ParseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		log := logging.New(os.Stderr, logging.Options{})
		log.Error().Msg(err.Error())
		return 1
	}

	log := logging.New(os.Stderr, logging.Options{Level: cfg.LogLevel, NoColor: cfg.LogNoColor})
	log.Info().Str("media", cfg.MusicDir).Msg("Starting jukebot...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw, err := discord.New(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create gateway")
		return 1
	}
	defer func() {
		if err := gw.Close(); err != nil {
			log.Warn().Err(err).Msg("Gateway close error")
		}
	}()

	b, err := bot.New(gw, library.New(cfg.MusicDir), log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build bot")
		return 1
	}

	if err := gw.Open(ctx); err != nil {
		log.Error().Err(err).Msg("Discord connection failed")
		return 1
	}

	if err := b.Run(ctx, gw.Events()); err != nil {
		log.Error().Err(err).Msg("Bot stopped with error")
		return 1
	}

	log.Info().Msg("Jukebot exited cleanly")
	return 0
}
