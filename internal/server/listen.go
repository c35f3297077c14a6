package server

import (
	"context"
	"net"

	"github.com/indigo-web/framing/internal/transport"
)

// ListenAndServe binds the address and serves incoming connections until the context is
// done. It returns once every connection is served.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	tcp := transport.NewTCP()
	if err := tcp.Bind(addr); err != nil {
		return err
	}

	return s.Serve(ctx, tcp)
}

// Serve runs the accept loop over an already bound listener. Every connection is served
// in its own goroutine, requests within a connection are never processed concurrently.
func (s *Server) Serve(ctx context.Context, tcp *transport.TCP) error {
	err := tcp.Listen(ctx, s.cfg.NET, func(conn net.Conn) {
		client := transport.NewClient(conn, s.cfg.NET.ReadTimeout, make([]byte, s.cfg.NET.ReadBufferSize))
		s.Run(ctx, client)
	})

	if closeErr := tcp.Close(); err == nil {
		err = closeErr
	}

	tcp.Wait()
	return err
}
