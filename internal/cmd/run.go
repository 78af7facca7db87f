package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/robolabs/widowlink/arm"
	"github.com/robolabs/widowlink/internal/bridge"
	"github.com/robolabs/widowlink/internal/configpaths"
	"github.com/robolabs/widowlink/internal/log"
	"github.com/robolabs/widowlink/internal/monitor"
	"github.com/robolabs/widowlink/internal/monitor/auth"

	"golang.org/x/term"
)

const keyFileName = "monitor.key.txt"

// TuningFlags exposes the arm workspace limits. The integration gains
// (Kp, Kg, Kq5) are physical calibration constants of the WidowX and
// stay in arm.DefaultTuning.
type TuningFlags struct {
	XYLim          float64 `help:"Horizontal workspace limit, cm" default:"43"`
	ZLimUp         float64 `help:"Upper vertical workspace limit, cm" default:"52"`
	ZLimDown       float64 `help:"Lower vertical workspace limit, cm" default:"-26"`
	GammaLim       float64 `help:"Wrist angle limit, degrees" default:"91"`
	StickThreshold float64 `help:"Stick deadzone radius in raw axis units" default:"20"`
}

func (t TuningFlags) Tuning() arm.Tuning {
	tn := arm.DefaultTuning()
	tn.XYLim = t.XYLim
	tn.ZLimUp = t.ZLimUp
	tn.ZLimDown = t.ZLimDown
	tn.GammaLim = t.GammaLim
	tn.StickThreshold = t.StickThreshold
	return tn
}

type Run struct {
	Device  string         `help:"Controller hidraw device node" default:"/dev/hidraw0" env:"WIDOWLINK_DEVICE"`
	Serial  string         `help:"Arm serial device node; empty streams frames to stdout" env:"WIDOWLINK_SERIAL"`
	Settle  time.Duration  `help:"Delay before the first read, lets the pad finish enumerating" default:"500ms" env:"WIDOWLINK_SETTLE"`
	Tuning  TuningFlags    `embed:"" prefix:"tuning."`
	Monitor monitor.Config `embed:"" prefix:"monitor."`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.StartBridge(ctx, logger, rawLogger)
}

func (r *Run) StartBridge(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	logger.Info("Starting widowlink bridge", "device", r.Device, "serial", r.Serial)

	dev, err := os.Open(r.Device)
	if err != nil {
		return fmt.Errorf("open pad device: %w", err)
	}
	defer dev.Close()
	logHIDInfo(dev, logger)

	sink, closeSink, err := r.openSink(logger)
	if err != nil {
		return err
	}
	if closeSink != nil {
		defer closeSink()
	}

	b := bridge.New(&fileSource{f: dev}, sink, r.Tuning.Tuning(), logger, rawLogger)

	var monSrv *monitor.Server
	if r.Monitor.Addr != "" {
		key := r.Monitor.Key
		if key == "" {
			key, err = loadOrCreateKey(logger)
			if err != nil {
				return err
			}
		}
		derived, err := auth.DeriveKey(key)
		if err != nil {
			return fmt.Errorf("derive monitor key: %w", err)
		}

		monSrv = monitor.New(r.Monitor, derived, logger)
		monErrCh := make(chan error, 1)
		go func() {
			monErrCh <- monSrv.ListenAndServe()
		}()
		select {
		case err := <-monErrCh:
			return err
		case <-monSrv.Ready():
		}
		defer monSrv.Close()

		b.SetPublisher(monSrv.Publish)
	}

	if r.Settle > 0 {
		logger.Debug("Settling before first read", "delay", r.Settle)
		select {
		case <-time.After(r.Settle):
		case <-ctx.Done():
			return nil
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down bridge")
		// Unblock the device read so the loop can observe cancellation.
		_ = dev.Close()
		<-errCh
		return nil
	case err := <-errCh:
		if err != nil {
			logger.Error("Bridge stopped", "error", err)
		}
		return err
	}
}

// openSink picks the frame destination. With no serial path, frames go
// to stdout raw when it is a pipe, or as hex lines when stdout is an
// interactive terminal (raw frames would garble it).
func (r *Run) openSink(logger *slog.Logger) (bridge.FrameSink, func() error, error) {
	if r.Serial != "" {
		f, err := os.OpenFile(r.Serial, os.O_RDWR, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("open serial device: %w", err)
		}
		return &fileSink{f: f}, f.Close, nil
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Info("No serial device configured, printing frames as hex")
		return &consoleSink{logger: logger}, nil, nil
	}
	return &fileSink{f: os.Stdout}, nil, nil
}

func loadOrCreateKey(logger *slog.Logger) (string, error) {
	keyFileDir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve key file path: %w", err)
	}
	keyFilePath := path.Join(keyFileDir, keyFileName)
	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		return strings.TrimSpace(string(pwd)), nil
	}

	newKey, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate monitor key: %w", err)
	}
	if err := os.MkdirAll(keyFileDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir for key file: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(newKey), 0o600); err != nil {
		return "", fmt.Errorf("failed to write monitor key file: %w", err)
	}
	logger.Info("Generated monitor key", "path", keyFilePath)
	return newKey, nil
}

// fileSource reads one hidraw report per call.
type fileSource struct {
	f *os.File
}

func (s *fileSource) ReadReport(buf []byte) (int, error) {
	return s.f.Read(buf)
}

// fileSink writes raw frames to a byte-stream device.
type fileSink struct {
	f *os.File
}

func (s *fileSink) WriteFrame(f arm.Frame) error {
	_, err := s.f.Write(f[:])
	return err
}

// consoleSink logs frames instead of writing them anywhere.
type consoleSink struct {
	logger *slog.Logger
}

func (s *consoleSink) WriteFrame(f arm.Frame) error {
	s.logger.Info("frame", "hex", fmt.Sprintf("% x", f[:]))
	return nil
}
