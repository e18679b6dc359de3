// Package discord is the transport adapter between discordgo and the bot
// core. It turns gateway callbacks into core events, sends text replies and
// implements voice.Connector on top of discordgo voice connections.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"jukebot/internal/config"
	"jukebot/internal/core"
	"jukebot/internal/music/stream"
	"jukebot/pkg/jobmgr"
	"jukebot/pkg/retrylimit"
)

const (
	eventBuffer = 256

	intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
)

// Gateway owns the discordgo session.
type Gateway struct {
	dg      *discordgo.Session
	cfg     *config.Config
	log     zerolog.Logger
	events  chan core.Event
	closed  chan struct{}
	once    sync.Once
	limiter *retrylimit.AdaptiveLimiter
	jobs    *jobmgr.Manager
	ffmpeg  stream.FFmpeg
}

// New creates a gateway session for cfg without connecting it.
func New(cfg *config.Config, log zerolog.Logger) (*Gateway, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log = log.With().Str("component", "discord").Logger()
	discordgo.Logger = bridgeLogger(log)
	dg.LogLevel = discordgo.LogWarning
	if log.GetLevel() <= zerolog.DebugLevel {
		dg.LogLevel = discordgo.LogInformational
	}

	dg.Identify.Intents = intents
	dg.SyncEvents = true
	dg.ShouldReconnectOnError = true
	dg.StateEnabled = true

	if cfg.Proxy != "" {
		client, dialer, err := proxyTransport(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		dg.Client = client
		dg.Dialer = dialer
		log.Info().Str("proxy", redact(cfg.Proxy)).Msg("using proxy")
	}

	g := &Gateway{
		dg:      dg,
		cfg:     cfg,
		log:     log,
		events:  make(chan core.Event, eventBuffer),
		closed:  make(chan struct{}),
		limiter: retrylimit.NewAdaptiveLimiter(rate.Limit(cfg.SendRate), 1, rate.Limit(cfg.SendRateMax), 1, 0.5),
		ffmpeg:  stream.FFmpeg{Path: cfg.FFmpegPath},
	}
	g.jobs = jobmgr.NewManager(func(status string) {
		g.log.Debug().Str("job", status).Msg("playback job")
	})

	dg.AddHandler(g.onReady)
	dg.AddHandler(g.onMessageCreate)
	dg.AddHandler(g.onVoiceStateUpdate)
	return g, nil
}

// Open connects to the gateway, retrying transient failures with backoff.
// An authentication failure is not retried.
func (g *Gateway) Open(ctx context.Context) error {
	rc := retrylimit.DefaultRetryConfig()
	rc.MaxAttempts = g.cfg.OpenAttempts
	rc.Log = g.log

	err := retrylimit.WithRetryConfig(ctx, func() error {
		return openError(g.dg.Open())
	}, nil, rc)
	if err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	return nil
}

// Events is the ordered stream of inbound events.
func (g *Gateway) Events() <-chan core.Event {
	return g.events
}

// Close stops all playback and closes the gateway connection.
func (g *Gateway) Close() error {
	var err error
	g.once.Do(func() {
		close(g.closed)
		g.jobs.StopAll("play:")
		err = g.dg.Close()
	})
	return err
}

// push hands ev to the router. Handlers run on discordgo's read loop, so a
// full buffer applies backpressure to the gateway instead of reordering.
func (g *Gateway) push(ev core.Event) {
	select {
	case g.events <- ev:
	case <-g.closed:
	}
}

// SendMessage posts content to channelID, paced by the adaptive limiter.
func (g *Gateway) SendMessage(ctx context.Context, channelID, content string) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := g.dg.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		err = withStatus(err)
		if retrylimit.IsRateLimit(err) {
			g.limiter.RateLimited()
			g.log.Warn().Float64("rate", g.limiter.CurrentLimit()).Msg("rate limited, slowing down")
		}
		return fmt.Errorf("send message: %w", err)
	}
	g.limiter.Success()
	return nil
}

// statusError exposes the HTTP status of a REST failure to retrylimit.
type statusError struct {
	*discordgo.RESTError
}

func (e statusError) StatusCode() int { return e.Response.StatusCode }
func (e statusError) Unwrap() error   { return e.RESTError }

func withStatus(err error) error {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return statusError{rest}
	}
	return err
}

// Gateway close codes that no retry can fix.
var fatalCloseCodes = map[int]bool{
	4004: true, // authentication failed
	4010: true, // invalid shard
	4011: true, // sharding required
	4013: true, // invalid intents
	4014: true, // disallowed intents
}

// openError marks errors from Session.Open that must not be retried.
func openError(err error) error {
	if err == nil {
		return nil
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) && fatalCloseCodes[ce.Code] {
		return &retrylimit.FatalError{Err: err}
	}
	err = withStatus(err)
	var se statusError
	if errors.As(err, &se) {
		code := se.StatusCode()
		if code >= 400 && code < 500 && code != 429 {
			return &retrylimit.FatalError{Err: err}
		}
	}
	return err
}
