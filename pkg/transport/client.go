package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// deadliner is implemented by net.Conn and serial ports that support timeouts.
type deadliner interface {
	SetDeadline(t time.Time) error
}

// Client is a BlockDevice backed by a remote Server over a byte stream.
// It is safe for concurrent use; requests are issued one at a time.
type Client struct {
	mu     sync.Mutex
	rw     io.ReadWriter
	framer *Framer
	nextID uint32
	closed bool
}

// NewClient creates a client speaking the stream protocol over rw.
// A maxMessageSize of 0 selects DefaultMaxMessageSize.
func NewClient(rw io.ReadWriter, maxMessageSize uint32) *Client {
	return &Client{
		rw:     rw,
		framer: NewFramer(rw, maxMessageSize),
	}
}

// Dial connects to a Server at address over TCP.
func Dial(ctx context.Context, address string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", address, err)
	}
	return NewClient(conn, 0), nil
}

// ReadBlock requests length bytes starting at address.
func (c *Client) ReadBlock(ctx context.Context, address, length int) ([]byte, error) {
	resp, err := c.roundTrip(ctx, &Request{Op: OpRead, Address: address, Length: length})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != length {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrShortResponse, len(resp.Data), length)
	}
	return resp.Data, nil
}

// WriteBlock writes data starting at address.
func (c *Client) WriteBlock(ctx context.Context, address int, data []byte) error {
	_, err := c.roundTrip(ctx, &Request{Op: OpWrite, Address: address, Data: data})
	return err
}

// Close closes the underlying stream if it is closable.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if closer, ok := c.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// broken closes the client after a stream failure. A late response to the
// failed request may still be in flight, so the stream cannot be reused.
func (c *Client) broken(err error) error {
	_ = c.closeLocked()
	return err
}

func (c *Client) roundTrip(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, net.ErrClosed
	}

	c.nextID++
	req.ID = c.nextID

	if dl, ok := c.rw.(deadliner); ok {
		deadline, _ := ctx.Deadline()
		_ = dl.SetDeadline(deadline)
	}

	data, err := encode(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	if err := c.framer.WriteFrame(data); err != nil {
		return nil, c.broken(err)
	}

	frame, err := c.framer.ReadFrame()
	if err != nil {
		return nil, c.broken(fmt.Errorf("failed to read response: %w", err))
	}
	var resp Response
	if err := decode(frame, &resp); err != nil {
		return nil, c.broken(fmt.Errorf("failed to decode response: %w", err))
	}
	if resp.ID != req.ID {
		return nil, c.broken(fmt.Errorf("%w: id %d, want %d", ErrResponseMismatch, resp.ID, req.ID))
	}
	if resp.Status != StatusOK {
		return nil, &RemoteError{Status: resp.Status, Message: resp.Message}
	}
	return &resp, nil
}
