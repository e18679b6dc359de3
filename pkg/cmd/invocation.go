// Package cmd provides a transport-agnostic command core: a command is a
// descriptor with a name, a brief description, a parameter schema, a handler
// and an error handler. How commands are parsed out of chat messages and how
// replies reach the user is defined by the router that drives this package.
package cmd

import (
	"context"
	"fmt"
	"strings"
)

// Caller identifies who invoked a command and where.
type Caller struct {
	UserID    string
	ChannelID string
	GuildID   string
}

// ReplyFunc sends one text message back to the channel a command came from.
type ReplyFunc func(ctx context.Context, content string) error

// Invocation carries everything a handler needs: the resolved arguments, the
// raw tokens they came from, the caller and a way to answer.
type Invocation struct {
	Name   string
	Raw    []string
	Args   Args
	Caller Caller
	Reply  ReplyFunc
}

// Respond sends content to the invoking channel. A nil Reply is ignored.
func (inv *Invocation) Respond(ctx context.Context, content string) error {
	if inv.Reply == nil {
		return nil
	}
	return inv.Reply(ctx, content)
}

// Replyf is Respond with fmt.Sprintf formatting.
func (inv *Invocation) Replyf(ctx context.Context, format string, a ...any) error {
	return inv.Respond(ctx, fmt.Sprintf(format, a...))
}

// Args holds coerced argument values keyed by parameter name.
type Args map[string]any

// Int returns the integer argument name, or 0 if it is absent.
func (a Args) Int(name string) int64 {
	v, _ := a[name].(int64)
	return v
}

// String returns the string argument name, or "" if it is absent.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Tokenize splits a command line (prefix already stripped) into the command
// name and its raw argument tokens.
func Tokenize(line string) (name string, tokens []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
