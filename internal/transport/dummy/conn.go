package dummy

import (
	"io"
	"net"
	"time"
)

var _ net.Conn = new(Conn)

// Conn is a connection yielding the data it was initialised with, byte by byte if
// required. Written data is journaled.
type Conn struct {
	Data    []byte
	Written []byte
	Remote  net.Addr
	step    int
}

func NewConn(data string) *Conn {
	return &Conn{Data: []byte(data)}
}

// ByteByByte makes every read return at most n bytes.
func (c *Conn) ByteByByte(n int) *Conn {
	c.step = n
	return c
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if len(c.Data) == 0 {
		return 0, io.EOF
	}

	if c.step > 0 && len(b) > c.step {
		b = b[:c.step]
	}

	n = copy(b, c.Data)
	c.Data = c.Data[n:]

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	c.Written = append(c.Written, b...)
	return len(b), nil
}

func (c *Conn) Close() error {
	return nil
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.Remote
}

func (c *Conn) SetDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}
