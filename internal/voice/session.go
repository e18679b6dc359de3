package voice

import "sync"

// State is the connection state of a guild.
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "Connected"
	}
	return "Disconnected"
}

// Session is a point-in-time copy of a guild's voice session.
type Session struct {
	GuildID   string
	State     State
	ChannelID string
	Track     string
	Members   int
}

// guildSession is the live record. conn == nil is the Disconnected state;
// track is empty whenever conn is nil.
type guildSession struct {
	mu      sync.Mutex
	guildID string
	conn    Conn
	track   string
	members int
	// gen increments whenever the playing stream is replaced or cleared so
	// a stale end-of-stream notification cannot clear a newer track.
	gen uint64
}

func (g *guildSession) state() State {
	if g.conn == nil {
		return Disconnected
	}
	return Connected
}

func (g *guildSession) snapshot() Session {
	s := Session{
		GuildID: g.guildID,
		State:   g.state(),
		Track:   g.track,
		Members: g.members,
	}
	if g.conn != nil {
		s.ChannelID = g.conn.ChannelID()
	}
	return s
}

func (g *guildSession) clear() {
	g.conn = nil
	g.track = ""
	g.gen++
}
