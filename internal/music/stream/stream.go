// Package stream turns audio files into a sequence of Opus frames for a
// voice connection.
package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	Channels   = 2
	SampleRate = 48000
	FrameSize  = 960 // 20ms at 48kHz

	frameBytes   = FrameSize * Channels * 2
	maxOpusBytes = frameBytes
)

// Encoder compresses one PCM frame.
type Encoder interface {
	Encode(pcm []int16, frameSize, maxDataBytes int) ([]byte, error)
}

// ReadFrame reads one 20ms stereo frame of little-endian s16 PCM into
// samples. buf must hold exactly frameBytes bytes. A short final frame is
// padded with silence; io.EOF is returned only when nothing was read.
func ReadFrame(r io.Reader, buf []byte, samples []int16) error {
	n, err := io.ReadFull(r, buf)
	switch {
	case errors.Is(err, io.EOF):
		return io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		clear(buf[n:])
	case err != nil:
		return fmt.Errorf("read error: %w", err)
	}

	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(buf[i*2 : i*2+2]))
	}
	return nil
}

// Pump encodes PCM from r and sends frames to out until r is exhausted or
// ctx is cancelled. It returns nil on a clean end of stream.
func Pump(ctx context.Context, r io.Reader, enc Encoder, out chan<- []byte) error {
	buf := make([]byte, frameBytes)
	samples := make([]int16, FrameSize*Channels)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := ReadFrame(r, buf, samples)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		frame, err := enc.Encode(samples, FrameSize, maxOpusBytes)
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}

		select {
		case out <- frame:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
