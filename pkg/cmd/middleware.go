package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Middleware wraps a handler (e.g. logging, guild check).
type Middleware func(name string, next Handler) Handler

// Apply applies middlewares in order; the first in the list is the outermost.
func Apply(name string, h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](name, h)
	}
	return h
}

// ErrGuildOnly is returned by WithGuildOnly for invocations outside a guild.
var ErrGuildOnly = errors.New("This command can only be used in a server.")

// WithGuildOnly rejects invocations that did not come from a guild channel.
func WithGuildOnly() Middleware {
	return func(_ string, next Handler) Handler {
		return func(ctx context.Context, inv *Invocation) error {
			if inv.Caller.GuildID == "" {
				return ErrGuildOnly
			}
			return next(ctx, inv)
		}
	}
}

// WithLogger logs each command execution and its outcome.
func WithLogger(log zerolog.Logger) Middleware {
	return func(name string, next Handler) Handler {
		return func(ctx context.Context, inv *Invocation) error {
			start := time.Now()
			err := next(ctx, inv)

			ev := log.Debug()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			ev.Str("command", name).
				Str("guild", inv.Caller.GuildID).
				Str("user", inv.Caller.UserID).
				Strs("args", inv.Raw).
				Dur("took", time.Since(start)).
				Msg("command executed")
			return err
		}
	}
}
