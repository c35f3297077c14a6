package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/indigo-web/framing/http/status"
	"github.com/indigo-web/framing/internal/timer"
	"github.com/indigo-web/utils/unreader"
)

// Client is a raw connection. Read returns a piece of data, which stays valid only until
// the next Read. Bytes that weren't consumed must be given back via Unread, so the next
// Read returns them first.
type Client interface {
	Read(ctx context.Context) ([]byte, error)
	Unread([]byte)
	Write([]byte) error
	Remote() net.Addr
	Close() error
}

// aLongTimeAgo is a non-zero time, far in the past, used for immediate cancellation of
// blocked reads.
var aLongTimeAgo = time.Unix(1, 0)

type client struct {
	unreader *unreader.Unreader
	buff     []byte
	conn     net.Conn
	timeout  time.Duration
}

// NewClient wraps the connection. Every read is armed with the timeout, so idle connections
// are closed eventually.
func NewClient(conn net.Conn, timeout time.Duration, buff []byte) Client {
	return &client{
		unreader: new(unreader.Unreader),
		buff:     buff,
		conn:     conn,
		timeout:  timeout,
	}
}

// Read reads data into the internal buffer and returns a piece of it back. If the context is
// cancelled while waiting for the data, the read is interrupted and ctx.Err() is returned.
// The connection must not be reused afterwards: an interrupted read may leave it at an
// arbitrary position in the stream.
func (c *client) Read(ctx context.Context) ([]byte, error) {
	return c.unreader.PendingOr(func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := c.conn.SetReadDeadline(timer.Now().Add(c.timeout)); err != nil {
			return nil, err
		}

		stop := context.AfterFunc(ctx, func() {
			_ = c.conn.SetReadDeadline(aLongTimeAgo)
		})

		n, err := c.conn.Read(c.buff)
		if errors.Is(err, os.ErrDeadlineExceeded) {
			if !stop() {
				return nil, ctx.Err()
			}

			return nil, status.ErrRequestTimeout
		}

		stop()

		if n > 0 && errors.Is(err, io.EOF) {
			// the data is handed out first, EOF is reported by the next read
			err = nil
		}

		return c.buff[:n], err
	})
}

// Unread preserves a chunk of data from previous read for the next read.
func (c *client) Unread(b []byte) {
	c.unreader.Unread(b)
}

func (c *client) Write(b []byte) error {
	_, err := c.conn.Write(b)

	return err
}

// Remote returns the remote address of the connection.
func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
