// Package core turns inbound gateway events into command invocations and
// voice idle checks.
package core

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"jukebot/pkg/cmd"
)

// Prefix marks a message as a command invocation.
const Prefix = "!"

// Messenger sends text replies.
type Messenger interface {
	SendMessage(ctx context.Context, channelID, content string) error
}

// IdleChecker is told about every voice state change in a guild.
type IdleChecker interface {
	CheckIdle(ctx context.Context, guildID string) (bool, error)
}

// PanicError is what an error handler receives when a command panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("command crashed: %v", e.Value)
}

// Router dispatches events. Events of one guild are handled strictly in
// arrival order; different guilds are handled concurrently by Run.
type Router struct {
	prefix    string
	registry  *cmd.Registry
	messenger Messenger
	idle      IdleChecker
	log       zerolog.Logger

	mu     sync.RWMutex
	selfID string
}

// NewRouter returns a Router using the default command prefix.
func NewRouter(registry *cmd.Registry, messenger Messenger, idle IdleChecker, log zerolog.Logger) *Router {
	return &Router{
		prefix:    Prefix,
		registry:  registry,
		messenger: messenger,
		idle:      idle,
		log:       log.With().Str("component", "router").Logger(),
	}
}

// SetSelf records the bot's own user ID. Messages from this author are
// never dispatched.
func (r *Router) SetSelf(userID string) {
	r.mu.Lock()
	r.selfID = userID
	r.mu.Unlock()
}

func (r *Router) self() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selfID
}

// Handle processes a single event synchronously.
func (r *Router) Handle(ctx context.Context, ev Event) {
	switch e := ev.(type) {
	case ReadyEvent:
		r.SetSelf(e.UserID)
		r.log.Info().Str("user", e.Username).Int("guilds", e.Guilds).Msgf("logged on as <%s>", e.Username)
	case MessageEvent:
		r.handleMessage(ctx, e)
	case VoiceStateEvent:
		r.handleVoiceState(ctx, e)
	default:
		r.log.Debug().Msgf("ignoring event %T", ev)
	}
}

func (r *Router) handleMessage(ctx context.Context, m MessageEvent) {
	if m.AuthorID == r.self() {
		return
	}
	r.log.Debug().Str("author", m.AuthorName).Msgf("message from <%s>: %q", m.AuthorName, m.Content)

	if !strings.HasPrefix(m.Content, r.prefix) {
		return
	}
	name, tokens := cmd.Tokenize(strings.TrimPrefix(m.Content, r.prefix))
	d, ok := r.registry.Lookup(name)
	if !ok {
		return
	}

	inv := &cmd.Invocation{
		Name: name,
		Raw:  tokens,
		Caller: cmd.Caller{
			UserID:    m.AuthorID,
			ChannelID: m.ChannelID,
			GuildID:   m.GuildID,
		},
		Reply: func(ctx context.Context, content string) error {
			return r.messenger.SendMessage(ctx, m.ChannelID, content)
		},
	}

	args, err := cmd.Coerce(d.Params, tokens)
	if err != nil {
		r.fail(ctx, d, inv, err)
		return
	}
	inv.Args = args

	if err := r.invoke(ctx, d, inv); err != nil {
		r.fail(ctx, d, inv, err)
	}
}

// invoke runs the handler, converting a panic into an error.
func (r *Router) invoke(ctx context.Context, d *cmd.Descriptor, inv *cmd.Invocation) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Str("command", d.Name).Bytes("stack", debug.Stack()).Msgf("panic: %v", p)
			err = &PanicError{Value: p}
		}
	}()
	return d.Handler(ctx, inv)
}

func (r *Router) fail(ctx context.Context, d *cmd.Descriptor, inv *cmd.Invocation, err error) {
	if d.OnError == nil {
		r.log.Warn().Err(err).Str("command", d.Name).Msg("command failed without error handler")
		return
	}
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Str("command", d.Name).Msgf("error handler panic: %v", p)
		}
	}()
	d.OnError(ctx, inv, err)
}

func (r *Router) handleVoiceState(ctx context.Context, v VoiceStateEvent) {
	if v.GuildID == "" || r.idle == nil {
		return
	}
	if _, err := r.idle.CheckIdle(ctx, v.GuildID); err != nil {
		r.log.Warn().Err(err).Str("guild", v.GuildID).Msg("idle check failed")
	}
}
