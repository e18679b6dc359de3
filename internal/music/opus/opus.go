// Package opus wraps the libopus binding used for voice frames. It is kept
// apart from package stream so that only the transport links against cgo.
package opus

import (
	"fmt"

	"layeh.com/gopus"

	"jukebot/internal/music/stream"
)

// NewEncoder returns an Opus encoder tuned for music.
func NewEncoder() (stream.Encoder, error) {
	enc, err := gopus.NewEncoder(stream.SampleRate, stream.Channels, gopus.Audio)
	if err != nil {
		return nil, fmt.Errorf("encoder error: %w", err)
	}
	return enc, nil
}
