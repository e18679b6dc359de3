package stream

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// FFmpeg decodes audio files to raw PCM by running an external ffmpeg.
type FFmpeg struct {
	// Path is the ffmpeg binary; "ffmpeg" is looked up in PATH when empty.
	Path string
}

func (f FFmpeg) args(path string) []string {
	return []string{
		"-i", path,
		"-f", "s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		"-loglevel", "warning",
		"pipe:1",
	}
}

// Open starts ffmpeg on path and returns its PCM output. The process is
// killed when ctx is cancelled or the returned reader is closed.
func (f FFmpeg) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bin := f.Path
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin, f.args(path)...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command start error: %w", err)
	}
	return &process{ReadCloser: out, cmd: cmd}, nil
}

type process struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (p *process) Close() error {
	_ = p.ReadCloser.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.cmd.Wait()
	return nil
}
