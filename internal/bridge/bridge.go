// Package bridge runs the control loop: read one pad report, decode it,
// arbitrate the mode, integrate motion while idle, encode the 6-byte
// frame and hand it to the sink. One tick per report, single goroutine,
// the arm state never leaves the loop.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robolabs/widowlink/arm"
	"github.com/robolabs/widowlink/internal/log"
	"github.com/robolabs/widowlink/pad"
)

// ErrDevice marks the input device as unreadable or disconnected. It is
// fatal: the loop surfaces it and stops instead of retrying.
var ErrDevice = errors.New("bridge: pad device unreadable")

// ReportBufSize is the read buffer size; the DS4 sends 64-byte reports.
const ReportBufSize = 64

// ReportSource yields exactly one raw report per call, or fails.
// A blocking read is fine; the loop is human paced.
type ReportSource interface {
	ReadReport(buf []byte) (int, error)
}

// FrameSink accepts encoded frames, typically backed by the arm's serial
// device node.
type FrameSink interface {
	WriteFrame(f arm.Frame) error
}

// Bridge owns the persistent arm state and drives it from pad reports.
type Bridge struct {
	src    ReportSource
	sink   FrameSink
	tuning arm.Tuning
	state  arm.State

	logger *slog.Logger
	raw    log.RawLogger

	publish func(arm.Frame) // optional frame observer, must not block
	now     func() time.Time
}

func New(src ReportSource, sink FrameSink, tuning arm.Tuning, logger *slog.Logger, raw log.RawLogger) *Bridge {
	return &Bridge{
		src:    src,
		sink:   sink,
		tuning: tuning,
		logger: logger,
		raw:    raw,
		now:    time.Now,
	}
}

// SetPublisher installs an observer invoked with every encoded frame.
// The callback runs on the loop goroutine and must not block.
func (b *Bridge) SetPublisher(fn func(arm.Frame)) { b.publish = fn }

// State returns a copy of the current arm state.
func (b *Bridge) State() arm.State { return b.state }

// Run executes ticks until the context is canceled or a fatal error
// occurs. Short reports are logged and skipped; a failed or empty read
// is a fatal device error; a negative tick delta is a fatal clock error.
func (b *Bridge) Run(ctx context.Context) error {
	buf := make([]byte, ReportBufSize)
	var last time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// dt spans successive tick starts, including the time spent
		// blocked on the device read.
		start := b.now()
		var dt time.Duration
		if !last.IsZero() {
			dt = start.Sub(last)
		}
		last = start

		n, err := b.src.ReadReport(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrDevice, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: empty read", ErrDevice)
		}
		b.raw.Log(true, buf[:n])

		var snap pad.State
		if err := snap.UnmarshalBinary(buf[:n]); err != nil {
			if errors.Is(err, pad.ErrShortReport) {
				b.logger.Warn("skipping truncated report", "len", n)
				continue
			}
			return err
		}

		frame, err := b.Tick(snap, dt)
		if err != nil {
			return err
		}

		b.raw.Log(false, frame[:])
		if err := b.sink.WriteFrame(frame); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
		if b.publish != nil {
			b.publish(frame)
		}
	}
}

// Tick advances the state machine for one decoded snapshot and returns
// the frame to send. Motion is integrated only in idle mode; every other
// mode freezes the state and carries its own option code.
func (b *Bridge) Tick(snap pad.State, dt time.Duration) (arm.Frame, error) {
	mode := arm.ModeFor(snap)
	if mode == arm.Idle {
		if err := b.state.Integrate(snap, dt, b.tuning); err != nil {
			return arm.Frame{}, err
		}
	}
	b.logger.Log(context.Background(), log.LevelTrace, "tick",
		"mode", mode.String(),
		"pad", snap.String(),
		"px", b.state.Px, "py", b.state.Py, "pz", b.state.Pz,
		"gamma", b.state.Gamma, "q5", b.state.Q5)
	return arm.Encode(b.state, mode, b.tuning), nil
}
