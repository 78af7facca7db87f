// Package monitor exposes the frame stream to observers over TCP. Each
// client authenticates with the shared key, then receives every 6-byte
// frame the bridge emits, sealed with the per-session cipher. Publishing
// never blocks the control loop: a lagging client just loses frames.
package monitor

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/robolabs/widowlink/arm"
	"github.com/robolabs/widowlink/internal/monitor/auth"
)

// subscriberBacklog is the per-client frame buffer. At the DS4's 250 Hz
// report rate this is well over 100 ms of slack.
const subscriberBacklog = 32

type Config struct {
	Addr string `help:"Monitor listen address; empty disables the monitor" env:"WIDOWLINK_MONITOR_ADDR"`
	Key  string `help:"Monitor shared key; auto-generated into the config dir when empty" env:"WIDOWLINK_MONITOR_KEY"`
}

type Server struct {
	addr   string
	key    []byte
	logger *slog.Logger

	ln    net.Listener
	ready chan struct{}

	mu     sync.Mutex
	subs   map[chan arm.Frame]struct{}
	closed bool
}

func New(cfg Config, derivedKey []byte, logger *slog.Logger) *Server {
	return &Server{
		addr:   cfg.Addr,
		key:    derivedKey,
		logger: logger,
		ready:  make(chan struct{}),
		subs:   make(map[chan arm.Frame]struct{}),
	}
}

// Ready is closed once the listener is accepting connections.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound listen address, valid after Ready.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.ln = ln
	close(s.ready)
	s.logger.Info("Frame monitor listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || strings.Contains(strings.ToLower(err.Error()), "use of closed network connection") {
				s.logger.Info("Monitor server stopped")
				return nil
			}
			s.logger.Error("Accept error", "error", err)
			continue
		}
		s.logger.Info("Monitor client connected", "remote", conn.RemoteAddr())
		go s.handleClient(conn)
	}
}

// Close stops the listener and closes every subscriber channel so
// parked client handlers drain out and hang up.
func (s *Server) Close() error {
	var err error
	if s.ln != nil {
		err = s.ln.Close()
	}
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		for ch := range s.subs {
			close(ch)
			delete(s.subs, ch)
		}
	}
	s.mu.Unlock()
	return err
}

// Publish hands a frame to every subscriber without blocking. Frames are
// dropped for subscribers whose backlog is full.
func (s *Server) Publish(f arm.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

func (s *Server) subscribe() chan arm.Frame {
	ch := make(chan arm.Frame, subscriberBacklog)
	s.mu.Lock()
	if s.closed {
		// Raced with Close; hand back a drained channel so the caller
		// falls straight through its receive loop.
		close(ch)
	} else {
		s.subs[ch] = struct{}{}
	}
	s.mu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan arm.Frame) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
}

func (s *Server) handleClient(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	if ok, err := auth.IsHandshake(r); err != nil || !ok {
		s.logger.Warn("Monitor client did not open with a handshake", "remote", conn.RemoteAddr())
		return
	}
	clientNonce, serverNonce, err := auth.Handshake(r, conn, s.key, false)
	if err != nil {
		s.logger.Warn("Monitor handshake failed", "remote", conn.RemoteAddr(), "error", err)
		return
	}

	sessionKey := auth.DeriveSessionKey(s.key, serverNonce, clientNonce)
	sec, err := auth.WrapConn(conn, sessionKey)
	if err != nil {
		s.logger.Error("Failed to establish session cipher", "error", err)
		return
	}

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	for f := range ch {
		if _, err := sec.Write(f[:]); err != nil {
			s.logger.Info("Monitor client disconnected", "remote", conn.RemoteAddr())
			return
		}
	}
}
