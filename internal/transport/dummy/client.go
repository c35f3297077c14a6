package dummy

import (
	"context"
	"io"
	"net"

	"github.com/indigo-web/framing/internal/transport"
	"github.com/indigo-web/utils/unreader"
)

var _ transport.Client = new(Client)

// Client returns the pieces it was initialised with, one per read. By default, once the
// pieces are over, io.EOF is returned; Loop() makes it start over instead. It also tracks
// all the written data, making it thereby a universal mock suitable for most of the tests.
type Client struct {
	unreader *unreader.Unreader
	data     [][]byte
	pointer  int
	reads    int
	loop     bool
	closed   bool
	written  []byte
	remote   net.Addr
}

func NewClient(data ...[]byte) *Client {
	return &Client{
		unreader: new(unreader.Unreader),
		data:     data,
	}
}

// NewStringClient is a shorthand for NewClient, accepting strings.
func NewStringClient(data ...string) *Client {
	pieces := make([][]byte, len(data))
	for i, piece := range data {
		pieces[i] = []byte(piece)
	}

	return NewClient(pieces...)
}

func (c *Client) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.closed {
		return nil, io.EOF
	}

	return c.unreader.PendingOr(func() ([]byte, error) {
		if c.pointer >= len(c.data) {
			if !c.loop || len(c.data) == 0 {
				return nil, io.EOF
			}

			c.pointer = 0
		}

		piece := c.data[c.pointer]
		c.pointer++
		c.reads++

		return piece, nil
	})
}

func (c *Client) Unread(takeback []byte) {
	c.unreader.Unread(takeback)
}

func (c *Client) Write(p []byte) error {
	c.written = append(c.written, p...)
	return nil
}

func (c *Client) Remote() net.Addr {
	return c.remote
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

// Loop makes the client return the pieces over and over again instead of io.EOF.
func (c *Client) Loop() *Client {
	c.loop = true
	return c
}

// WithRemote sets the address returned by Remote.
func (c *Client) WithRemote(addr net.Addr) *Client {
	c.remote = addr
	return c
}

// Reads returns how many pieces were handed out, not counting the unread ones.
func (c *Client) Reads() int {
	return c.reads
}

// Rest returns everything that wasn't read yet, including the unread data. Doesn't
// respect looping.
func (c *Client) Rest() string {
	var rest []byte
	for {
		data, err := c.unreader.PendingOr(func() ([]byte, error) {
			if c.pointer >= len(c.data) {
				return nil, io.EOF
			}

			c.pointer++
			return c.data[c.pointer-1], nil
		})
		if err != nil {
			return string(rest)
		}

		rest = append(rest, data...)
	}
}

func (c *Client) Written() string {
	return string(c.written)
}

func (c *Client) Closed() bool {
	return c.closed
}
