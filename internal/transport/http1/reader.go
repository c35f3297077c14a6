package http1

import (
	"context"
	"strings"

	"github.com/indigo-web/framing/config"
	"github.com/indigo-web/framing/http"
	"github.com/indigo-web/framing/http/headers"
	"github.com/indigo-web/framing/http/proto"
	"github.com/indigo-web/framing/http/status"
	"github.com/indigo-web/framing/internal/transport"
)

var _ http.Transport = new(Reader)

// ReadFields pulls header lines from the scanner until the empty line, folding them into
// the storage. Every raw value is split on commas and each fragment is trimmed, so
// "gzip, chunked" results in two values. All the fragments of a single line are added at
// once, therefore a line is either added as a whole or not at all.
//
// The storage may already contain some fields (e.g. trailers are merged into the request
// headers), limit then applies to the number of lines read by this call only.
func ReadFields(ctx context.Context, scanner *Scanner, hdrs *headers.Headers, limit config.Headers) error {
	var values []string

	for lines := 0; ; lines++ {
		field, ok, err := scanner.Field(ctx)
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}

		if lines >= limit.Number.Maximal {
			return status.ErrTooManyHeaders
		}

		values, err = splitValues(values[:0], field.Value, limit.MaxValuesPerField)
		if err != nil {
			return err
		}

		hdrs.Add(field.Name, values...)
	}
}

func splitValues(into []string, value string, limit int) ([]string, error) {
	for {
		if len(into) >= limit {
			return nil, status.ErrTooManyValues
		}

		comma := strings.IndexByte(value, ',')
		if comma == -1 {
			return append(into, strings.Trim(value, " \t")), nil
		}

		into = append(into, strings.Trim(value[:comma], " \t"))
		value = value[comma+1:]
	}
}

// Reader is the HTTP/1.x side of the request. Each connection owns exactly one Reader,
// as well as exactly one Request, which are reused for every request on it.
type Reader struct {
	cfg     *config.Config
	scanner *Scanner
	sized   Sized
	chunked Chunked
}

func NewReader(client transport.Client, cfg *config.Config) *Reader {
	scanner := NewScanner(client, cfg)

	return &Reader{
		cfg:     cfg,
		scanner: scanner,
		chunked: Chunked{scanner: scanner},
	}
}

// Next reads the start-line of the next request and binds the request to it. io.EOF means
// the client has gracefully gone, so there's nothing more to serve.
func (r *Reader) Next(ctx context.Context, request *http.Request) error {
	startLine, err := r.scanner.StartLine(ctx)
	if err != nil {
		return err
	}

	request.Init(ctx, startLine.Method, startLine.URI, proto.FromCode(startLine.Version))
	return nil
}

// ReadHeaders implements http.Transport.
func (r *Reader) ReadHeaders(ctx context.Context, hdrs *headers.Headers) error {
	return ReadFields(ctx, r.scanner, hdrs, r.cfg.Headers)
}
