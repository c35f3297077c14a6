package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net"

	"github.com/indigo-web/framing/config"
	"github.com/indigo-web/framing/http"
	"github.com/indigo-web/framing/http/headers"
	"github.com/indigo-web/framing/http/proto"
	"github.com/indigo-web/framing/http/status"
	"github.com/indigo-web/framing/internal/transport"
	"github.com/indigo-web/framing/internal/transport/http1"
	"golang.org/x/net/http/httpguts"
)

// Writer is the outgoing half of the connection. Producing responses is entirely up to
// the handler.
type Writer interface {
	Write([]byte) error
}

// Handler processes requests with already established bodies.
type Handler interface {
	// OnRequest is called for every well-framed request. The body needn't be consumed, the
	// rest of it is discarded afterwards anyway. Returning an error closes the connection.
	OnRequest(request *http.Request, w Writer) error
	// OnError is called when the request cannot be served, e.g. because of malformed
	// framing. The connection is closed right after it returns. Use status.CodeOf to
	// get the status code to respond with; status.CloseConnection means there's nobody
	// to respond to.
	OnError(request *http.Request, w Writer, err error)
}

type Logger interface {
	Printf(format string, v ...any)
}

type Server struct {
	cfg     *config.Config
	handler Handler
	logger  Logger
}

// NewServer returns a server. If logger is nil, log.Default() is used.
func NewServer(cfg *config.Config, handler Handler, logger Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
}

// Run serves requests of the connection one by one, until it's closed by either side or
// the context is done. The client is closed afterwards.
func (s *Server) Run(ctx context.Context, client transport.Client) {
	reader := http1.NewReader(client, s.cfg)
	request := http.NewRequest(s.cfg, reader, client.Remote())

	for s.HandleRequest(ctx, reader, request, client) {
	}

	_ = client.Close()
}

// HandleRequest serves a single request. False is returned if the connection must not be
// used anymore.
func (s *Server) HandleRequest(ctx context.Context, reader *http1.Reader, request *http.Request, w Writer) (ok bool) {
	if err := reader.Next(ctx, request); err != nil {
		if errors.Is(err, io.EOF) {
			// the client has gone between requests, which is perfectly fine
			return false
		}

		request.Init(ctx, "", "", proto.Unknown)
		s.onError(request, w, err)
		return false
	}

	// the framing is decided before the handler is called, so protocol errors are
	// reported uniformly instead of surfacing somewhere in the middle of the handler
	if err := request.ReadHeaders(); err != nil {
		s.onError(request, w, err)
		return false
	}

	if _, err := request.Body(); err != nil {
		s.onError(request, w, err)
		return false
	}

	if err := s.handler.OnRequest(request, w); err != nil {
		s.logger.Printf("%s: %s %s: handler: %s", remote(request.Remote), request.Method, http.Escape(request.URI), err)
		return false
	}

	if err := request.Drain(); err != nil {
		// the response is already sent, so the error cannot be reported to the client
		s.logger.Printf("%s: %s %s: drain: %s", remote(request.Remote), request.Method, http.Escape(request.URI), err)
		return false
	}

	return keepAlive(request)
}

func (s *Server) onError(request *http.Request, w Writer, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}

	if status.CodeOf(err) == status.InternalServerError {
		s.logger.Printf("%s: %s", remote(request.Remote), err)
	}

	s.handler.OnError(request, w, err)
}

// keepAlive tells whether the connection may be reused after the request. HTTP/1.1
// connections are persistent by default, HTTP/1.0 ones only on explicit demand.
func keepAlive(request *http.Request) bool {
	connection, _ := request.Headers.Get(headers.Connection)

	if request.Protocol == proto.HTTP10 {
		return httpguts.HeaderValuesContainsToken(connection, "keep-alive")
	}

	return !httpguts.HeaderValuesContainsToken(connection, "close")
}

func remote(addr net.Addr) string {
	if addr == nil {
		return "<unknown>"
	}

	return addr.String()
}
