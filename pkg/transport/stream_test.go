package transport

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice is a flat byte array device for protocol tests.
type fakeDevice struct {
	mem    []byte
	reads  int
	writes int
	fail   error
}

func (d *fakeDevice) ReadBlock(_ context.Context, address, length int) ([]byte, error) {
	d.reads++
	if d.fail != nil {
		return nil, d.fail
	}
	if address > len(d.mem) || length > len(d.mem)-address {
		return nil, fmt.Errorf("%w: %d+%d", ErrOutOfRange, address, length)
	}
	return append([]byte(nil), d.mem[address:address+length]...), nil
}

func (d *fakeDevice) WriteBlock(_ context.Context, address int, data []byte) error {
	d.writes++
	if d.fail != nil {
		return d.fail
	}
	if address > len(d.mem) || len(data) > len(d.mem)-address {
		return fmt.Errorf("%w: %d+%d", ErrOutOfRange, address, len(data))
	}
	copy(d.mem[address:], data)
	return nil
}

func pipeClient(t *testing.T, dev BlockDevice) *Client {
	t.Helper()
	clientConn, serverConn := net.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = ServeConn(ctx, serverConn, dev, 0)
		serverConn.Close()
	}()

	client := NewClient(clientConn, 0)
	t.Cleanup(func() {
		cancel()
		client.Close()
		wg.Wait()
	})
	return client
}

func TestClientReadWriteRoundTrip(t *testing.T) {
	dev := &fakeDevice{mem: make([]byte, 64)}
	client := pipeClient(t, dev)
	ctx := context.Background()

	require.NoError(t, client.WriteBlock(ctx, 10, []byte{0xDE, 0xAD, 0xBE, 0xEF}))

	got, err := client.ReadBlock(ctx, 8, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0xDE, 0xAD, 0xBE, 0xEF, 0, 0}, got)

	assert.Equal(t, 1, dev.reads)
	assert.Equal(t, 1, dev.writes)
}

func TestClientOutOfRange(t *testing.T) {
	dev := &fakeDevice{mem: make([]byte, 16)}
	client := pipeClient(t, dev)

	_, err := client.ReadBlock(context.Background(), 12, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, StatusOutOfRange, remote.Status)

	// The connection survives a failed request.
	_, err = client.ReadBlock(context.Background(), 0, 4)
	assert.NoError(t, err)
}

func TestClientHugeAddressOutOfRange(t *testing.T) {
	dev := &fakeDevice{mem: make([]byte, 16)}
	client := pipeClient(t, dev)

	_, err := client.ReadBlock(context.Background(), math.MaxInt, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	err = client.WriteBlock(context.Background(), math.MaxInt, []byte{1})
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = client.ReadBlock(context.Background(), 0, 4)
	assert.NoError(t, err)
}

func TestClientDeviceFailure(t *testing.T) {
	dev := &fakeDevice{mem: make([]byte, 16), fail: errors.New("bus stuck")}
	client := pipeClient(t, dev)

	err := client.WriteBlock(context.Background(), 0, []byte{1})
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, StatusFailed, remote.Status)
	assert.Contains(t, remote.Message, "bus stuck")
}

func TestClientRejectsInvalidRequests(t *testing.T) {
	client := NewClient(&net.TCPConn{}, 0)

	_, err := client.ReadBlock(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrBadRequest)

	err = client.WriteBlock(context.Background(), -1, []byte{1})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestClientHonoursCancelledContext(t *testing.T) {
	dev := &fakeDevice{mem: make([]byte, 16)}
	client := pipeClient(t, dev)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ReadBlock(ctx, 0, 4)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, dev.reads)
}

func TestClientClosesAfterTimeout(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	release := make(chan struct{})
	served := make(chan struct{})

	// Reads one request and answers it only after release.
	go func() {
		defer close(served)
		defer serverConn.Close()
		framer := NewFramer(serverConn, 0)
		frame, err := framer.ReadFrame()
		if err != nil {
			return
		}
		var req Request
		if decode(frame, &req) != nil {
			return
		}
		<-release
		data, _ := encode(&Response{ID: req.ID, Data: []byte{1, 2, 3, 4}})
		_ = framer.WriteFrame(data)
	}()

	client := NewClient(clientConn, 0)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.ReadBlock(ctx, 0, 4)
	assert.ErrorIs(t, err, os.ErrDeadlineExceeded)

	close(release)
	<-served

	// The stale response must not be taken as the answer to a new request.
	_, err = client.ReadBlock(context.Background(), 0, 4)
	assert.ErrorIs(t, err, net.ErrClosed)
	assert.NotErrorIs(t, err, ErrResponseMismatch)
}

func TestClientClosed(t *testing.T) {
	dev := &fakeDevice{mem: make([]byte, 16)}
	client := pipeClient(t, dev)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err := client.ReadBlock(context.Background(), 0, 1)
	assert.ErrorIs(t, err, net.ErrClosed)
}

func TestServerOverTCP(t *testing.T) {
	dev := &fakeDevice{mem: make([]byte, 32)}
	srv, err := NewServer(ServerConfig{Address: "127.0.0.1:0", Device: dev})
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	defer srv.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, srv.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.WriteBlock(ctx, 4, []byte{7, 8, 9}))
	got, err := client.ReadBlock(ctx, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 8, 9}, got)

	assert.Eventually(t, func() bool { return srv.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestServerRequiresDevice(t *testing.T) {
	_, err := NewServer(ServerConfig{})
	assert.Error(t, err)
}

func TestServerStopIdempotent(t *testing.T) {
	srv, err := NewServer(ServerConfig{Address: "127.0.0.1:0", Device: &fakeDevice{}})
	require.NoError(t, err)
	assert.NoError(t, srv.Stop())
	require.NoError(t, srv.Start(context.Background()))
	assert.NoError(t, srv.Stop())
	assert.NoError(t, srv.Stop())
}
