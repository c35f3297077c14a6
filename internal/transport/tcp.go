package transport

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"github.com/indigo-web/framing/config"
)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// TCP accepts connections and serves each of them in its own goroutine. Connections are
// never shared between goroutines, so nothing on the serving side needs a lock.
type TCP struct {
	l  listener
	wg *sync.WaitGroup
}

func NewTCP() *TCP {
	return &TCP{
		wg: new(sync.WaitGroup),
	}
}

func (t *TCP) Bind(addr string) error {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return err
	}

	t.l, err = net.ListenTCP("tcp", tcpaddr)
	return err
}

// Addr returns the bound address. Must be called after Bind.
func (t *TCP) Addr() net.Addr {
	return t.l.Addr()
}

// Listen runs the accept loop until the context is done. The accept call is interrupted
// every config.NET.AcceptLoopInterruptPeriod to check the context.
func (t *TCP) Listen(ctx context.Context, cfg config.NET, cb func(conn net.Conn)) error {
	for ctx.Err() == nil {
		err := t.l.SetDeadline(time.Now().Add(cfg.AcceptLoopInterruptPeriod))
		if err != nil {
			return err
		}

		conn, err := t.l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			return err
		}

		t.wg.Add(1)
		go func(conn net.Conn) {
			defer t.wg.Done()
			cb(conn)
			_ = conn.Close()
		}(conn)
	}

	return nil
}

func (t *TCP) Close() error {
	return t.l.Close()
}

// Wait blocks until every accepted connection is served.
func (t *TCP) Wait() {
	t.wg.Wait()
}
