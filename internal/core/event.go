package core

// Event is an inbound gateway event. It is produced by the transport adapter
// and consumed exactly once by the Router.
type Event interface {
	guild() string
}

// ReadyEvent is delivered once the gateway session is established.
type ReadyEvent struct {
	UserID   string
	Username string
	Guilds   int
}

// MessageEvent is a text message posted in a channel the bot can read.
type MessageEvent struct {
	AuthorID   string
	AuthorName string
	Content    string
	ChannelID  string
	GuildID    string // empty for direct messages
}

// VoiceStateEvent reports a member joining, leaving or moving between voice
// channels.
type VoiceStateEvent struct {
	GuildID         string
	UserID          string
	BeforeChannelID string
	AfterChannelID  string
}

func (ReadyEvent) guild() string        { return "" }
func (e MessageEvent) guild() string    { return e.GuildID }
func (e VoiceStateEvent) guild() string { return e.GuildID }
