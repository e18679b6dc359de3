package voice

import (
	"context"

	"jukebot/internal/music/library"
)

// Conn is a live voice connection in one guild. It is owned by exactly one
// session and never shared.
type Conn interface {
	ChannelID() string
	ChannelName() string
	// Play stops whatever this connection is streaming and starts path. The
	// returned channel is closed when the new stream ends for any reason.
	Play(path string) (<-chan struct{}, error)
	// StopPlayback halts the current stream and returns once no more audio
	// is being sent. It is a no-op when nothing plays.
	StopPlayback()
	Disconnect(ctx context.Context) error
}

// Connector is the voice side of the transport adapter.
type Connector interface {
	Join(ctx context.Context, guildID, channelID string) (Conn, error)
	// UserChannel returns the voice channel userID is in, or "" if none.
	UserChannel(guildID, userID string) (string, error)
	// MemberCount returns how many members, the bot included, are in a
	// voice channel right now.
	MemberCount(guildID, channelID string) (int, error)
}

// Resolver maps a track name to a playable file.
type Resolver interface {
	Resolve(name string) (library.Track, error)
}
