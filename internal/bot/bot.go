// Package bot wires the command registry, the voice manager and the event
// router into one process-scoped object.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"jukebot/internal/commands"
	"jukebot/internal/core"
	"jukebot/internal/music/library"
	"jukebot/internal/voice"
	"jukebot/pkg/cmd"
)

// shutdownTimeout bounds the voice teardown after the router stops.
const shutdownTimeout = 10 * time.Second

// Transport is what the bot needs from the chat platform.
type Transport interface {
	core.Messenger
	voice.Connector
}

// Bot holds the long-lived state shared by every handler.
type Bot struct {
	Registry *cmd.Registry
	Voice    *voice.Manager
	Router   *core.Router

	log zerolog.Logger
}

// New builds a bot serving tracks from lib over t. The registry is sealed
// before New returns.
func New(t Transport, lib *library.Library, log zerolog.Logger) (*Bot, error) {
	b := &Bot{
		Registry: cmd.NewRegistry(),
		log:      log,
	}
	b.Voice = voice.NewManager(t, lib, log)

	err := commands.Register(b.Registry, commands.Deps{
		Voice:   b.Voice,
		Library: lib,
		Log:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}
	b.Registry.Seal()

	b.Router = core.NewRouter(b.Registry, t, b.Voice, log)
	return b, nil
}

// Run routes events until ctx is cancelled or events is closed, then
// disconnects every voice session. Cancellation is a clean exit.
func (b *Bot) Run(ctx context.Context, events <-chan core.Event) error {
	err := b.Router.Run(ctx, events)

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	b.Voice.Shutdown(sctx)
	b.log.Info().Msg("voice sessions closed")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
