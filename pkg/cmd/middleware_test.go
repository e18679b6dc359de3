package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestApplyOrder(t *testing.T) {
	var trace []string
	mark := func(tag string) Middleware {
		return func(_ string, next Handler) Handler {
			return func(ctx context.Context, inv *Invocation) error {
				trace = append(trace, tag)
				return next(ctx, inv)
			}
		}
	}
	h := Apply("x", func(context.Context, *Invocation) error {
		trace = append(trace, "handler")
		return nil
	}, mark("outer"), mark("inner"))

	if err := h(context.Background(), &Invocation{}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(trace, ","); got != "outer,inner,handler" {
		t.Fatalf("trace = %s", got)
	}
}

func TestWithGuildOnly(t *testing.T) {
	called := false
	h := Apply("play", func(context.Context, *Invocation) error {
		called = true
		return nil
	}, WithGuildOnly())

	err := h(context.Background(), &Invocation{Caller: Caller{ChannelID: "dm"}})
	if !errors.Is(err, ErrGuildOnly) || called {
		t.Fatalf("dm invocation: err=%v called=%v", err, called)
	}
	if err := h(context.Background(), &Invocation{Caller: Caller{GuildID: "g1"}}); err != nil || !called {
		t.Fatalf("guild invocation: err=%v called=%v", err, called)
	}
}

func TestWithLoggerPassesErrorThrough(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	boom := errors.New("boom")

	h := Apply("roll", func(context.Context, *Invocation) error { return boom }, WithLogger(log))
	if err := h(context.Background(), &Invocation{Raw: []string{"6"}}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"command":"roll"`) || !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("unexpected log line: %s", out)
	}
}
