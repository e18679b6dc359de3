package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"jukebot/internal/music/opus"
	"jukebot/internal/music/stream"
	"jukebot/internal/voice"
)

// Join connects to a voice channel. The bot joins deafened, it never
// listens.
func (g *Gateway) Join(ctx context.Context, guildID, channelID string) (voice.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vc, err := g.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		if vc != nil {
			_ = vc.Disconnect()
		}
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}

	return &voiceConn{
		g:       g,
		vc:      vc,
		guildID: guildID,
		nameID:  channelID,
		name:    g.channelName(channelID),
	}, nil
}

// UserChannel returns the voice channel userID sits in, from the state cache.
func (g *Gateway) UserChannel(guildID, userID string) (string, error) {
	guild, err := g.dg.State.Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("error retrieving guild: %w", err)
	}
	return userChannel(guild, userID), nil
}

// MemberCount counts members in channelID, the bot included.
func (g *Gateway) MemberCount(guildID, channelID string) (int, error) {
	guild, err := g.dg.State.Guild(guildID)
	if err != nil {
		return 0, fmt.Errorf("error retrieving guild: %w", err)
	}
	return countMembers(guild, channelID), nil
}

// channelName resolves a channel name from state, then REST, then falls
// back to the ID.
func (g *Gateway) channelName(channelID string) string {
	ch, err := g.dg.State.Channel(channelID)
	if err != nil {
		ch, err = g.dg.Channel(channelID)
		if err != nil {
			g.log.Warn().Err(err).Str("channel", channelID).Msg("failed to fetch channel")
			return channelID
		}
	}
	return ch.Name
}

func userChannel(guild *discordgo.Guild, userID string) string {
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID
		}
	}
	return ""
}

func countMembers(guild *discordgo.Guild, channelID string) int {
	n := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID {
			n++
		}
	}
	return n
}

// voiceConn streams one track at a time as the guild's "play:" job.
type voiceConn struct {
	g       *Gateway
	vc      *discordgo.VoiceConnection
	guildID string

	mu     sync.Mutex
	nameID string // channel name was resolved for
	name   string
}

// ChannelID is the channel the bot sits in now. discordgo follows moves of
// the bot and resets it to "" when the bot is disconnected from outside.
func (c *voiceConn) ChannelID() string {
	c.vc.RLock()
	defer c.vc.RUnlock()
	return c.vc.ChannelID
}

func (c *voiceConn) ChannelName() string {
	id := c.ChannelID()
	c.mu.Lock()
	defer c.mu.Unlock()
	if id != c.nameID && id != "" {
		c.name = c.g.channelName(id)
		c.nameID = id
	}
	return c.name
}

func (c *voiceConn) job() string { return "play:" + c.guildID }

func (c *voiceConn) Play(path string) (<-chan struct{}, error) {
	c.StopPlayback()
	return c.g.jobs.StartAsync(c.job(), func(ctx context.Context) error {
		return c.stream(ctx, path)
	})
}

func (c *voiceConn) stream(ctx context.Context, path string) error {
	pcm, err := c.g.ffmpeg.Open(ctx, path)
	if err != nil {
		return err
	}
	defer pcm.Close()

	enc, err := opus.NewEncoder()
	if err != nil {
		return err
	}

	if err := c.vc.Speaking(true); err != nil {
		c.g.log.Warn().Err(err).Str("guild", c.guildID).Msg("couldn't set speaking")
	}
	defer func() { _ = c.vc.Speaking(false) }()

	return stream.Pump(ctx, pcm, enc, c.vc.OpusSend)
}

func (c *voiceConn) StopPlayback() {
	_ = c.g.jobs.Stop(c.job())
}

func (c *voiceConn) Disconnect(ctx context.Context) error {
	c.StopPlayback()
	if err := c.vc.Disconnect(); err != nil {
		return fmt.Errorf("voice disconnect: %w", err)
	}
	return nil
}
