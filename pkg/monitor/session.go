package monitor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zurustar/xmidi/pkg/midi"
)

// Sink receives every decoded message after it is printed.
type Sink interface {
	HandleMessage(msg midi.Message) error
}

// Stats summarizes a session.
type Stats struct {
	Messages int
	ByType   map[midi.MessageType]int
	System   int // single-byte system messages reported during resync
	Skipped  int // bytes skipped during resync
	Bytes    int64
	Elapsed  time.Duration
}

// SessionConfig configures a Session.
type SessionConfig struct {
	// Resync skips bytes that cannot start a message instead of stopping.
	Resync bool
	// DecoderOptions are passed to midi.NewDecoder.
	DecoderOptions []midi.DecoderOption
	Sinks          []Sink
	Logger         *slog.Logger
}

// Session runs the decode loop over one input stream.
type Session struct {
	id      uuid.UUID
	printer *Printer
	cfg     SessionConfig
	log     *slog.Logger
}

// NewSession returns a session printing through p.
func NewSession(p *Printer, cfg SessionConfig) *Session {
	id := uuid.New()
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		id:      id,
		printer: p,
		cfg:     cfg,
		log:     log.With("session", id.String()),
	}
}

// ID returns the session id used in log records.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Run decodes r until the end of the stream, an error, or ctx is done.
// When r is an io.Closer it is closed on cancellation so a blocked read
// returns.
func (s *Session) Run(ctx context.Context, r io.Reader) (Stats, error) {
	start := time.Now()

	if c, ok := r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { c.Close() })
		defer stop()
	}

	cr := &countingReader{r: bufio.NewReader(r)}
	stats := Stats{ByType: make(map[midi.MessageType]int)}

	s.log.Debug("session started", "resync", s.cfg.Resync)
	err := s.loop(ctx, cr, &stats)

	stats.Bytes = cr.n
	stats.Elapsed = time.Since(start)
	if err == nil {
		s.log.Info("input stream closed", "messages", stats.Messages, "bytes", stats.Bytes)
	}
	return stats, err
}

func (s *Session) loop(ctx context.Context, cr *countingReader, stats *Stats) error {
	dec := midi.NewDecoder(cr, s.cfg.DecoderOptions...)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		offset := cr.n
		msg, err := dec.Decode()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err == midi.ErrEndOfStream {
				return nil
			}
			if herr := s.handleError(err, offset, cr.n-offset, stats); herr != nil {
				return herr
			}
			continue
		}

		stats.Messages++
		stats.ByType[msg.Type()]++
		s.log.Debug("message", "offset", offset, "status", msg.Status.String())

		if err := s.printer.Print(msg); err != nil {
			return fmt.Errorf("failed to print message: %w", err)
		}
		for _, sink := range s.cfg.Sinks {
			if err := sink.HandleMessage(msg); err != nil {
				return fmt.Errorf("failed to forward message: %w", err)
			}
		}
	}
}

// handleError reports err and returns nil when the loop may continue.
// consumed is the number of bytes read by the failed decode.
func (s *Session) handleError(err error, offset, consumed int64, stats *Stats) error {
	var nmc *midi.NoMatchingCaseError
	if errors.As(err, &nmc) {
		if !s.cfg.Resync {
			if perr := s.printer.PrintUnknown(nmc.Byte); perr != nil {
				return errors.Join(err, fmt.Errorf("failed to print unknown input: %w", perr))
			}
			return err
		}
		stats.System++
		return s.printer.PrintSystem(midi.Status(nmc.Byte).SystemType())
	}

	if !s.cfg.Resync {
		return err
	}

	switch {
	case errors.Is(err, midi.ErrInvalidStatusByte),
		errors.Is(err, midi.ErrInvalidDataByte):
		stats.Skipped += int(consumed)
		s.log.Debug("skipped bytes", "offset", offset, "count", consumed, "error", err)
		return nil
	case errors.Is(err, midi.ErrEmptySysExMessage),
		errors.Is(err, midi.ErrSysExTooLong):
		s.log.Warn("dropped system exclusive", "offset", offset, "error", err)
		return nil
	default:
		return err
	}
}

type countingReader struct {
	r *bufio.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}

func (c *countingReader) UnreadByte() error {
	if err := c.r.UnreadByte(); err != nil {
		return err
	}
	c.n--
	return nil
}
