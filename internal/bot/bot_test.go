package bot

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"jukebot/internal/core"
	"jukebot/internal/music/library"
	"jukebot/internal/voice"
)

type conn struct {
	mu      sync.Mutex
	playing string
	stop    chan struct{}
	gone    bool
}

func (c *conn) ChannelID() string   { return "vc" }
func (c *conn) ChannelName() string { return "General" }

func (c *conn) Play(path string) (<-chan struct{}, error) {
	c.StopPlayback()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = filepath.Base(path)
	c.stop = make(chan struct{})
	return c.stop, nil
}

func (c *conn) StopPlayback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.playing = ""
}

func (c *conn) Disconnect(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gone = true
	return nil
}

type transport struct {
	mu   sync.Mutex
	msgs []string
	conn *conn
}

func (t *transport) SendMessage(_ context.Context, _, content string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.msgs = append(t.msgs, content)
	return nil
}

func (t *transport) Join(context.Context, string, string) (voice.Conn, error) {
	t.conn = &conn{}
	return t.conn, nil
}

func (t *transport) UserChannel(_, userID string) (string, error) {
	if userID == "alice" {
		return "vc", nil
	}
	return "", nil
}

func (t *transport) MemberCount(string, string) (int, error) { return 2, nil }

func mediaDir(t *testing.T, names ...string) *library.Library {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return library.New(dir)
}

func run(t *testing.T, b *Bot, contents ...string) {
	t.Helper()
	events := make(chan core.Event, len(contents)+1)
	events <- core.ReadyEvent{UserID: "bot", Username: "jukebot"}
	for _, c := range contents {
		events <- core.MessageEvent{AuthorID: "alice", Content: c, ChannelID: "text", GuildID: "g1"}
	}
	close(events)
	if err := b.Run(context.Background(), events); err != nil {
		t.Fatal(err)
	}
}

func TestListRepliesPerTrack(t *testing.T) {
	tr := &transport{}
	b, err := New(tr, mediaDir(t, "a.mp3", "b.mp3", "notes.txt"), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	run(t, b, "!list")
	if len(tr.msgs) != 2 || tr.msgs[0] != "a" || tr.msgs[1] != "b" {
		t.Fatalf("replies = %q", tr.msgs)
	}
}

func TestVoiceFlow(t *testing.T) {
	tr := &transport{}
	b, err := New(tr, mediaDir(t, "intro.mp3"), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	run(t, b, "!play intro", "!play intro", "!play nope", "!stop", "!scram", "!scram")

	want := []string{
		"Joined **General**",
		"Now playing **intro**",
		"Song **nope** does not exist.",
		"Playback stopped.",
		"Left **General**",
		"The bot is not connected to a voice channel.",
	}
	if len(tr.msgs) != len(want) {
		t.Fatalf("replies = %q, want %q", tr.msgs, want)
	}
	for i := range want {
		if tr.msgs[i] != want[i] {
			t.Fatalf("reply[%d] = %q, want %q", i, tr.msgs[i], want[i])
		}
	}
	if !tr.conn.gone {
		t.Fatal("connection not closed by scram")
	}
}

func TestRunShutsDownVoice(t *testing.T) {
	tr := &transport{}
	b, err := New(tr, mediaDir(t, "intro.mp3"), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	run(t, b, "!play intro")
	if !tr.conn.gone {
		t.Fatal("voice session survived Run")
	}
	if s := b.Voice.Session("g1"); s.State != voice.Disconnected {
		t.Fatalf("state = %v", s.State)
	}
}

func TestRegistrySealed(t *testing.T) {
	b, err := New(&transport{}, mediaDir(t), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	names := []string{}
	for _, d := range b.Registry.All() {
		names = append(names, d.Name)
	}
	if len(names) != 5 {
		t.Fatalf("commands = %q", names)
	}
}
