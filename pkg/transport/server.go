package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
)

// ServerConfig configures a block device server.
type ServerConfig struct {
	// Address to listen on (e.g., ":9502" or "127.0.0.1:9502").
	Address string

	// Device serves every connection. It is serialized internally.
	Device BlockDevice

	// MaxMessageSize is the maximum frame size (default: 64KB).
	MaxMessageSize uint32

	// OnError is called for accept and connection errors (optional).
	OnError func(err error)
}

// DefaultAddress is the listen address used when ServerConfig.Address is empty.
const DefaultAddress = ":9502"

// Server exposes a BlockDevice over the stream protocol.
type Server struct {
	config   ServerConfig
	device   *Serialized
	listener net.Listener

	conns   map[net.Conn]struct{}
	connsMu sync.Mutex

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a server for config.Device.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Device == nil {
		return nil, errors.New("server device is required")
	}
	if config.Address == "" {
		config.Address = DefaultAddress
	}
	return &Server{
		config: config,
		device: Serialize(config.Device),
		conns:  make(map[net.Conn]struct{}),
	}, nil
}

// Start listens on the configured address and begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("server already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener and every open connection, then waits for the
// connection handlers to return.
func (s *Server) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	s.cancel()
	s.listener.Close()

	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()
	return nil
}

// Addr returns the listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// ConnectionCount returns the number of active connections.
func (s *Server) ConnectionCount() int {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	return len(s.conns)
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.running.Load() {
				s.reportError(fmt.Errorf("accept error: %w", err))
			}
			continue
		}

		s.connsMu.Lock()
		s.conns[conn] = struct{}{}
		s.connsMu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				s.connsMu.Lock()
				delete(s.conns, conn)
				s.connsMu.Unlock()
				conn.Close()
			}()
			if err := ServeConn(s.ctx, conn, s.device, s.config.MaxMessageSize); err != nil && s.running.Load() {
				s.reportError(err)
			}
		}()
	}
}

func (s *Server) reportError(err error) {
	if s.config.OnError != nil {
		s.config.OnError(err)
	}
}

// ServeConn answers block requests on rw until the peer closes the stream
// or ctx is cancelled. A clean close returns nil. Device errors are sent
// back to the peer and do not end the loop.
func ServeConn(ctx context.Context, rw io.ReadWriter, dev BlockDevice, maxMessageSize uint32) error {
	framer := NewFramer(rw, maxMessageSize)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		frame, err := framer.ReadFrame()
		if err != nil {
			if err == io.EOF || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		resp := handleRequest(ctx, dev, frame)
		data, err := encode(resp)
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		if err := framer.WriteFrame(data); err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func handleRequest(ctx context.Context, dev BlockDevice, frame []byte) *Response {
	var req Request
	if err := decode(frame, &req); err != nil {
		return &Response{Status: StatusBadRequest, Message: err.Error()}
	}
	resp := &Response{ID: req.ID}
	if err := req.Validate(); err != nil {
		resp.Status = StatusBadRequest
		resp.Message = err.Error()
		return resp
	}

	var err error
	switch req.Op {
	case OpRead:
		resp.Data, err = dev.ReadBlock(ctx, req.Address, req.Length)
	case OpWrite:
		err = dev.WriteBlock(ctx, req.Address, req.Data)
	}
	if err != nil {
		resp.Status = statusFor(err)
		resp.Message = err.Error()
		resp.Data = nil
	}
	return resp
}
