package voice

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned by operations that need a live session.
	ErrNotConnected = errors.New("The bot is not connected to a voice channel.")
	// ErrNoRequesterChannel is returned by Play when the bot has to join but
	// the requesting user is not in a voice channel.
	ErrNoRequesterChannel = errors.New("You are not connected to a voice channel.")
)

// ConnectFailedError reports a transport failure while joining a channel.
type ConnectFailedError struct {
	ChannelID string
	Err       error
}

func (e *ConnectFailedError) Error() string {
	return fmt.Sprintf("Could not join voice channel: %v", e.Err)
}

func (e *ConnectFailedError) Unwrap() error { return e.Err }
