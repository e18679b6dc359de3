// Package voice manages at most one voice connection per guild and the
// playback state on top of it.
//
// Every operation for a guild runs under that guild's lock, so two
// concurrent requests for the same guild observe each other's effects in
// order, while different guilds never wait on each other.
package voice

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"jukebot/internal/music/library"
)

// JoinStatus tells whether Join created a connection.
type JoinStatus int

const (
	Joined JoinStatus = iota + 1
	AlreadyConnected
)

func (s JoinStatus) String() string {
	switch s {
	case Joined:
		return "Joined"
	case AlreadyConnected:
		return "AlreadyConnected"
	default:
		return "None"
	}
}

// JoinResult describes the connection a guild ended up with.
type JoinResult struct {
	Status      JoinStatus
	ChannelID   string
	ChannelName string
}

// PlayResult is returned by Play. Join is filled in even when Play fails
// after a successful join, so callers can still announce the new connection.
type PlayResult struct {
	Join  JoinResult
	Track library.Track
}

// LeaveResult names the channel that was left.
type LeaveResult struct {
	ChannelID   string
	ChannelName string
}

// Manager owns every guild's session.
type Manager struct {
	mu     sync.Mutex
	guilds map[string]*guildSession

	connector Connector
	resolver  Resolver
	log       zerolog.Logger
}

// NewManager creates a Manager with no sessions.
func NewManager(connector Connector, resolver Resolver, log zerolog.Logger) *Manager {
	return &Manager{
		guilds:    make(map[string]*guildSession),
		connector: connector,
		resolver:  resolver,
		log:       log.With().Str("component", "voice").Logger(),
	}
}

// guild returns the record for guildID, creating it on first use.
func (m *Manager) guild(guildID string) *guildSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.guilds[guildID]
	if !ok {
		g = &guildSession{guildID: guildID}
		m.guilds[guildID] = g
	}
	return g
}

func (m *Manager) lookup(guildID string) (*guildSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guilds[guildID]
	return g, ok
}

// Session returns a snapshot of the guild's session.
func (m *Manager) Session(guildID string) Session {
	g, ok := m.lookup(guildID)
	if !ok {
		return Session{GuildID: guildID, State: Disconnected}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

// Join connects to channelID unless the guild already has a connection, in
// which case the existing one is kept and AlreadyConnected is returned.
func (m *Manager) Join(ctx context.Context, guildID, channelID string) (JoinResult, error) {
	g := m.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	return m.join(ctx, g, channelID)
}

func (m *Manager) join(ctx context.Context, g *guildSession, channelID string) (JoinResult, error) {
	m.dropDead(ctx, g)
	if g.conn != nil {
		return JoinResult{
			Status:      AlreadyConnected,
			ChannelID:   g.conn.ChannelID(),
			ChannelName: g.conn.ChannelName(),
		}, nil
	}

	conn, err := m.connector.Join(ctx, g.guildID, channelID)
	if err != nil {
		m.log.Warn().Err(err).Str("guild", g.guildID).Str("channel", channelID).Msg("voice join failed")
		return JoinResult{}, &ConnectFailedError{ChannelID: channelID, Err: err}
	}

	g.conn = conn
	g.track = ""
	g.gen++
	m.log.Info().Str("guild", g.guildID).Str("channel", conn.ChannelName()).Msg("joined voice channel")

	return JoinResult{
		Status:      Joined,
		ChannelID:   conn.ChannelID(),
		ChannelName: conn.ChannelName(),
	}, nil
}

// Play streams trackName in the guild, joining userID's voice channel first
// if the guild has no connection. A track that is already playing is
// replaced. If the track does not exist the connection (new or old) is kept
// and the current track, if any, keeps playing.
func (m *Manager) Play(ctx context.Context, guildID, userID, trackName string) (PlayResult, error) {
	g := m.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	var res PlayResult
	m.dropDead(ctx, g)
	if g.conn == nil {
		channelID, err := m.connector.UserChannel(guildID, userID)
		if err != nil {
			return res, fmt.Errorf("find requester channel: %w", err)
		}
		if channelID == "" {
			return res, ErrNoRequesterChannel
		}
		if res.Join, err = m.join(ctx, g, channelID); err != nil {
			return res, err
		}
	} else {
		res.Join = JoinResult{
			Status:      AlreadyConnected,
			ChannelID:   g.conn.ChannelID(),
			ChannelName: g.conn.ChannelName(),
		}
	}

	track, err := m.resolver.Resolve(trackName)
	if err != nil {
		return res, err
	}
	res.Track = track

	done, err := g.conn.Play(track.Path)
	if err != nil {
		g.track = ""
		g.gen++
		return res, fmt.Errorf("start playback of %s: %w", track.Name, err)
	}

	g.gen++
	g.track = track.Name
	go m.watchTrack(g, g.gen, done)

	m.log.Info().Str("guild", guildID).Str("track", track.Name).Msg("playback started")
	return res, nil
}

// watchTrack returns the session to Connected(none) when a stream ends on
// its own.
func (m *Manager) watchTrack(g *guildSession, gen uint64, done <-chan struct{}) {
	<-done
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen == gen && g.conn != nil {
		m.log.Debug().Str("guild", g.guildID).Str("track", g.track).Msg("track finished")
		g.track = ""
		g.gen++
	}
}

// Stop halts playback but stays connected.
func (m *Manager) Stop(ctx context.Context, guildID string) error {
	g, ok := m.lookup(guildID)
	if !ok {
		return ErrNotConnected
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return ErrNotConnected
	}
	g.conn.StopPlayback()
	g.track = ""
	g.gen++
	return nil
}

// Leave disconnects the guild's voice connection.
func (m *Manager) Leave(ctx context.Context, guildID string) (LeaveResult, error) {
	g, ok := m.lookup(guildID)
	if !ok {
		return LeaveResult{}, ErrNotConnected
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return LeaveResult{}, ErrNotConnected
	}
	return m.leave(ctx, g), nil
}

// leave tears the connection down. The handle is cleared even if the
// transport reports an error: a half-closed connection is not reusable.
func (m *Manager) leave(ctx context.Context, g *guildSession) LeaveResult {
	res := LeaveResult{ChannelID: g.conn.ChannelID(), ChannelName: g.conn.ChannelName()}

	g.conn.StopPlayback()
	if err := g.conn.Disconnect(ctx); err != nil {
		m.log.Warn().Err(err).Str("guild", g.guildID).Msg("voice disconnect reported an error")
	}
	g.clear()

	m.log.Info().Str("guild", g.guildID).Str("channel", res.ChannelName).Msg("left voice channel")
	return res
}

// dropDead clears a handle whose connection no longer sits in any channel,
// which is what the bot being kicked from voice looks like.
func (m *Manager) dropDead(ctx context.Context, g *guildSession) bool {
	if g.conn == nil || g.conn.ChannelID() != "" {
		return false
	}
	m.log.Info().Str("guild", g.guildID).Msg("voice connection lost, dropping it")
	m.leave(ctx, g)
	return true
}

// CheckIdle refreshes the member count of the guild's voice channel and
// disconnects if the bot is the only member left. A connection that lost
// its channel is dropped too. It reports whether it disconnected. Guilds without a connection are left
// untouched.
func (m *Manager) CheckIdle(ctx context.Context, guildID string) (bool, error) {
	g, ok := m.lookup(guildID)
	if !ok {
		return false, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return false, nil
	}
	if m.dropDead(ctx, g) {
		return true, nil
	}

	n, err := m.connector.MemberCount(guildID, g.conn.ChannelID())
	if err != nil {
		return false, fmt.Errorf("count voice members: %w", err)
	}
	g.members = n
	if n != 1 {
		return false, nil
	}

	m.log.Info().Str("guild", guildID).Msg("alone in voice channel, disconnecting")
	m.leave(ctx, g)
	return true, nil
}

// Shutdown disconnects every guild.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	guilds := make([]*guildSession, 0, len(m.guilds))
	for _, g := range m.guilds {
		guilds = append(guilds, g)
	}
	m.mu.Unlock()

	for _, g := range guilds {
		g.mu.Lock()
		if g.conn != nil {
			m.leave(ctx, g)
		}
		g.mu.Unlock()
	}
}
