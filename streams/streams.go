// Package streams provides message sinks for the jsonconfig store. It offers
// ready-to-use implementations that write to stdout/stderr, discard output,
// capture output in memory buffers, or forward messages to a slog.Logger.
package streams

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
)

// Streams defines the minimal contract for user-facing output used by the
// store. Informational notes ("loaded", "created", "saved") go to Out and
// warnings about swallowed failures go to ErrOut. A nil writer silences the
// corresponding channel.
type Streams interface {
	Out() io.Writer
	ErrOut() io.Writer
}

// Basic forwards writes to the supplied io.Writer targets.
type Basic struct {
	out    io.Writer
	errOut io.Writer
}

func (s Basic) Out() io.Writer    { return s.out }
func (s Basic) ErrOut() io.Writer { return s.errOut }

// Default returns a Basic backed by os.Stdout and os.Stderr.
func Default() Basic {
	return Basic{out: os.Stdout, errOut: os.Stderr}
}

// Writers returns a Basic that writes Out to out and ErrOut to err.
func Writers(out, err io.Writer) Basic {
	return Basic{out: out, errOut: err}
}

// Discard returns a Basic that drops all output.
func Discard() Basic {
	return Writers(io.Discard, io.Discard)
}

// BuffersStreams captures output into bytes.Buffers so it can be inspected
// after Load or Save returns. It is not safe for concurrent writers.
type BuffersStreams struct {
	OutBuf *bytes.Buffer
	ErrBuf *bytes.Buffer
}

// Buffers creates a new BuffersStreams with fresh buffers for Out and ErrOut.
func Buffers() *BuffersStreams {
	return &BuffersStreams{
		OutBuf: &bytes.Buffer{},
		ErrBuf: &bytes.Buffer{},
	}
}

func (b *BuffersStreams) Out() io.Writer    { return b.OutBuf }
func (b *BuffersStreams) ErrOut() io.Writer { return b.ErrBuf }

// Strings returns the current contents of the Out and ErrOut buffers.
func (b *BuffersStreams) Strings() (out, err string) {
	return b.OutBuf.String(), b.ErrBuf.String()
}

// Reset clears both buffers.
func (b *BuffersStreams) Reset() {
	b.OutBuf.Reset()
	b.ErrBuf.Reset()
}

// slogWriter adapts slog.Logger to io.Writer, one record per Write.
type slogWriter struct {
	l     *slog.Logger
	level slog.Level
}

func (w slogWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	w.l.Log(context.Background(), w.level, string(p))
	return n, nil
}

// Slog returns a Basic that writes store messages to l. Notes are logged at
// info and warnings at err.
func Slog(l *slog.Logger, info, err slog.Level) Basic {
	return Basic{
		out:    slogWriter{l: l, level: info},
		errOut: slogWriter{l: l, level: err},
	}
}
