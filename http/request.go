package http

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/indigo-web/framing/config"
	"github.com/indigo-web/framing/http/coding"
	"github.com/indigo-web/framing/http/headers"
	"github.com/indigo-web/framing/http/proto"
)

// ErrHeadersNotRead is returned when the body is requested before the headers were ever
// read. It always indicates a bug on the caller's side, not a protocol error.
var ErrHeadersNotRead = errors.New("body is requested before the headers were read")

// Stream is the request body with its framing already removed. Exhaustion is signalled
// by io.EOF.
type Stream = io.Reader

// Transport is the protocol side of the request: it reads the header block and decides,
// how the body is delimited.
type Transport interface {
	// ReadHeaders reads the whole header block into the storage. It either succeeds or
	// fails as a whole, a partially read block must never be served.
	ReadHeaders(ctx context.Context, headers *headers.Headers) error
	// Frame selects the body stream by the already complete headers, pushing encodings
	// onto request.Encoding.
	Frame(request *Request) (Stream, error)
}

type requestState uint8

const (
	eStartLine requestState = iota
	eHeaders
	eFramed
	eFailed
)

// Request represents HTTP request
type Request struct {
	// Method is the request method as it was received. It isn't validated against any
	// known set of methods.
	Method string
	// URI is the request target as it was received (usually an absolute path with query).
	URI string
	// Protocol is the enum of a protocol used for the request.
	Protocol proto.Proto
	// Headers holds non-normalized header fields, even though lookup is case-insensitive.
	// Values are valid until the next request on the same connection, consider Clone()
	// for keeping them longer.
	Headers *headers.Headers
	// Encoding holds the codings applied to the body, the outermost on top. The chunked
	// transfer coding is already removed at the moment the body is available.
	Encoding *coding.Stack
	// Remote holds the remote address. Please note that this is generally not a good parameter
	// to identify a user, because there might be proxies in the middle.
	Remote net.Addr
	// Ctx is the cancellation signal of the request. Every read, including the body ones,
	// is interrupted as soon as it's done.
	Ctx       context.Context
	transport Transport
	body      *Body
	state     requestState
	err       error
}

// NewRequest returns a request with no start-line yet. Init must be called before use.
func NewRequest(cfg *config.Config, transport Transport, remote net.Addr) *Request {
	request := &Request{
		Headers:   headers.NewPrealloc(cfg.Headers.Number.Default),
		Encoding:  coding.NewStack(2),
		Remote:    remote,
		Ctx:       context.Background(),
		transport: transport,
	}
	request.body = newBody(request, cfg)

	return request
}

// Init prepares the request for a freshly received start-line, dropping everything left
// from the previous request on the same connection.
func (r *Request) Init(ctx context.Context, method, uri string, protocol proto.Proto) {
	r.Method = method
	r.URI = uri
	r.Protocol = protocol
	r.Headers.Clear()
	r.Encoding.Clear()
	r.Ctx = ctx
	r.body.reset(nil)
	r.state = eStartLine
	r.err = nil
}

// ReadHeaders reads the header block. The read is done at most once, so repeated calls
// return the outcome of the first one.
func (r *Request) ReadHeaders() error {
	switch r.state {
	case eStartLine:
	case eFailed:
		return r.err
	default:
		return nil
	}

	if err := r.transport.ReadHeaders(r.Ctx, r.Headers); err != nil {
		return r.fail(err)
	}

	r.state = eHeaders
	return nil
}

// Body returns the request body. It is established on the first call, so the framing is
// decided exactly once; every next call returns the very same instance, or the same error.
// Calling it before ReadHeaders results in ErrHeadersNotRead.
func (r *Request) Body() (*Body, error) {
	switch r.state {
	case eStartLine:
		return nil, ErrHeadersNotRead
	case eFailed:
		return nil, r.err
	case eFramed:
		return r.body, nil
	}

	stream, err := r.transport.Frame(r)
	if err != nil {
		return nil, r.fail(err)
	}

	r.body.reset(stream)
	r.state = eFramed

	return r.body, nil
}

// Drain reads the rest of the body (if any) and discards it, so the connection stays at
// the message boundary and can be used for the next request. Headers are read implicitly,
// if they weren't yet.
func (r *Request) Drain() error {
	if err := r.ReadHeaders(); err != nil {
		return err
	}

	body, err := r.Body()
	if err != nil {
		return err
	}

	return body.Discard()
}

// Err returns the error, the headers reading or framing has failed with.
func (r *Request) Err() error {
	return r.err
}

func (r *Request) fail(err error) error {
	r.state, r.err = eFailed, err
	return err
}
