// Package commands implements the chat commands: roll, play, stop, list and
// scram. Handlers are thin: arguments arrive already coerced, voice state is
// owned by the voice manager, and every failure is answered by replyError.
package commands

import (
	"context"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"jukebot/internal/voice"
	"jukebot/pkg/cmd"
)

// Voice is the part of the voice manager the handlers use.
type Voice interface {
	Play(ctx context.Context, guildID, userID, trackName string) (voice.PlayResult, error)
	Stop(ctx context.Context, guildID string) error
	Leave(ctx context.Context, guildID string) (voice.LeaveResult, error)
}

// Library lists playable tracks.
type Library interface {
	List() ([]string, error)
}

// Deps are the collaborators handlers need.
type Deps struct {
	Voice   Voice
	Library Library
	Log     zerolog.Logger
	// Rand returns a uniform integer in [0, n). Defaults to math/rand/v2.
	Rand func(n int64) int64
}

// Register adds every command to reg.
func Register(reg *cmd.Registry, deps Deps) error {
	if deps.Rand == nil {
		deps.Rand = rand.Int64N
	}

	logged := cmd.WithLogger(deps.Log)
	guildOnly := cmd.WithGuildOnly()

	descriptors := []cmd.Descriptor{
		{
			Name:    "roll",
			Brief:   "Generate random number between 1 and <max_val>",
			Params:  []cmd.Param{{Name: "max_val", Type: cmd.Int, Required: true}},
			Handler: cmd.Apply("roll", rollHandler(deps.Rand), logged),
		},
		{
			Name:    "play",
			Brief:   "Play a song",
			Params:  []cmd.Param{{Name: "name", Type: cmd.String, Required: true}},
			Handler: cmd.Apply("play", playHandler(deps.Voice), logged, guildOnly),
		},
		{
			Name:    "stop",
			Brief:   "Stop the current song",
			Handler: cmd.Apply("stop", stopHandler(deps.Voice), logged, guildOnly),
		},
		{
			Name:    "list",
			Brief:   "List of songs",
			Handler: cmd.Apply("list", listHandler(deps.Library), logged),
		},
		{
			Name:    "scram",
			Brief:   "Leave the voice channel",
			Handler: cmd.Apply("scram", scramHandler(deps.Voice), logged, guildOnly),
		},
	}

	for _, d := range descriptors {
		d.OnError = replyError(deps.Log)
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// replyError sends the error's text verbatim to the invoking channel.
func replyError(log zerolog.Logger) cmd.ErrorHandler {
	return func(ctx context.Context, inv *cmd.Invocation, err error) {
		if sendErr := inv.Respond(ctx, err.Error()); sendErr != nil {
			log.Error().Err(sendErr).Str("command", inv.Name).Msg("failed to send error reply")
		}
	}
}
