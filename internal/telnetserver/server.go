// Package telnetserver runs the TCP accept loop and wraps each connection in
// an internal/telnet.Stream before handing it to a session handler.
//
// Grounded on the teacher's telnetserver.Server (listener lifecycle,
// recover-per-connection, accept-loop shutdown detection); the teacher's
// bespoke TelnetConn/TelnetSessionAdapter (an ssh.Session-compatibility
// shim plus a second, cruder IAC state machine) is superseded entirely by
// internal/telnet, which already implements C1-C4 properly, so this
// package no longer needs either.
package telnetserver

import (
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"

	"github.com/sdsalyer/moonbase/internal/telnet"
)

// SessionHandler is invoked once per accepted, telnet-negotiated connection.
type SessionHandler func(stream *telnet.Stream, remoteAddr net.Addr)

// Config holds telnet server configuration.
type Config struct {
	Port           int
	Host           string
	MaxConnections int // 0 means unlimited
	SessionHandler SessionHandler
}

// Server accepts TCP connections, wraps them with telnet protocol handling,
// and enforces the configured connection ceiling (§5).
type Server struct {
	listener net.Listener
	config   Config
	mu       sync.Mutex
	active   int32
}

// NewServer creates a new telnet server instance.
func NewServer(cfg Config) (*Server, error) {
	if cfg.SessionHandler == nil {
		return nil, fmt.Errorf("session handler is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	return &Server{config: cfg}, nil
}

// ListenAndServe starts listening for telnet connections and blocks.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	log.Printf("INFO: telnet server listening on %s", addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.listener == nil
			s.mu.Unlock()
			if closed {
				return nil
			}
			log.Printf("ERROR: telnet accept error: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// handleConnection admits, negotiates, and dispatches a single connection.
func (s *Server) handleConnection(conn net.Conn) {
	remoteAddr := conn.RemoteAddr()
	log.Printf("INFO: telnet connection from %s", remoteAddr)

	if s.config.MaxConnections > 0 {
		if atomic.AddInt32(&s.active, 1) > int32(s.config.MaxConnections) {
			atomic.AddInt32(&s.active, -1)
			log.Printf("INFO: rejecting %s: server is at max connections (%d)", remoteAddr, s.config.MaxConnections)
			conn.Write([]byte("\r\nThis BBS is at capacity. Please try again later.\r\n"))
			conn.Close()
			return
		}
		defer atomic.AddInt32(&s.active, -1)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: telnet panic handling %s: %v", remoteAddr, r)
		}
		conn.Close()
		log.Printf("INFO: telnet connection closed from %s", remoteAddr)
	}()

	stream := telnet.NewStream(conn)

	// Suppress go-ahead locally; leave ECHO alone so the client echoes its
	// own keystrokes by default. internal/session toggles ECHO (via
	// RequestLocal(OptEcho, ...)) only around password entry, per §4.4's
	// request_echo_off/request_echo_on contract.
	if err := stream.RequestLocal(telnet.OptSuppressGoAhead, true); err != nil {
		log.Printf("DEBUG: telnet %s: local SUPPRESS_GO_AHEAD request: %v", remoteAddr, err)
	}
	for _, opt := range []telnet.Option{telnet.OptNAWS, telnet.OptTerminalType} {
		if err := stream.RequestRemote(opt, true); err != nil {
			log.Printf("DEBUG: telnet %s: remote %s request: %v", remoteAddr, opt, err)
		}
	}

	s.config.SessionHandler(stream, remoteAddr)
}

// ActiveConnections returns the current number of admitted connections.
func (s *Server) ActiveConnections() int {
	return int(atomic.LoadInt32(&s.active))
}

// Close shuts down the telnet server.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		err := s.listener.Close()
		s.listener = nil
		return err
	}
	return nil
}
