package http1

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/indigo-web/framing/config"
	"github.com/indigo-web/framing/http/proto"
	"github.com/indigo-web/framing/http/status"
	"github.com/indigo-web/framing/internal/transport"
	"github.com/indigo-web/utils/buffer"
	"github.com/indigo-web/utils/uf"
	"golang.org/x/net/http/httpguts"
)

// StartLine is the parsed request line.
type StartLine struct {
	Method string
	URI    string
	// Version is the minor version of HTTP/1.x, either 0 or 1.
	Version uint8
}

// Field is a single header line, as it was received. The value is stripped of surrounding
// whitespaces, but not split.
type Field struct {
	Name, Value string
}

// maxLeadingEmptyLines limits how many empty lines may precede the request line. RFC 9112,
// section 2.2 asks to ignore at least one.
const maxLeadingEmptyLines = 4

// Scanner splits the byte stream of the client into lines. Lines may be terminated either
// by CRLF or a bare LF. Strings returned are backed by internal buffers and stay valid until
// the next StartLine.
type Scanner struct {
	client    transport.Client
	startLine *buffer.Buffer[byte]
	fields    *buffer.Buffer[byte]
	line      *buffer.Buffer[byte]
}

func NewScanner(client transport.Client, cfg *config.Config) *Scanner {
	return &Scanner{
		client: client,
		startLine: buffer.NewBuffer[byte](
			cfg.URI.RequestLineSize.Default, cfg.URI.RequestLineSize.Maximal,
		),
		fields: buffer.NewBuffer[byte](
			cfg.Headers.Space.Default, cfg.Headers.Space.Maximal,
		),
		line: buffer.NewBuffer[byte](
			cfg.Body.ChunkLineSize, cfg.Body.ChunkLineSize,
		),
	}
}

// Client returns the underlying client. Bytes not belonging to a line are always given
// back to it, so the body can be read directly.
func (s *Scanner) Client() transport.Client {
	return s.client
}

// StartLine reads the request line. io.EOF is returned if the connection was closed before
// any byte of the request arrived, meaning there are no more requests to be served, which
// isn't an error. Closing in the middle of the line results in status.ErrConnectionClosed.
func (s *Scanner) StartLine(ctx context.Context) (StartLine, error) {
	s.startLine.Clear()
	s.fields.Clear()

	for i := 0; ; i++ {
		line, err := s.readLine(ctx, s.startLine, status.ErrTooLongRequestLine)
		switch {
		case errors.Is(err, errNoData):
			return StartLine{}, io.EOF
		case err != nil:
			return StartLine{}, err
		case len(line) > 0:
			return parseStartLine(line)
		case i == maxLeadingEmptyLines:
			return StartLine{}, status.ErrBadRequest
		}
	}
}

// Field reads the next header line. When the empty line terminating the block is met,
// false is returned. Closing the connection at any moment results in
// status.ErrConnectionClosed.
func (s *Scanner) Field(ctx context.Context) (Field, bool, error) {
	line, err := s.readLine(ctx, s.fields, status.ErrHeaderFieldsTooLarge)
	switch {
	case errors.Is(err, errNoData):
		return Field{}, false, status.ErrConnectionClosed
	case err != nil:
		return Field{}, false, err
	case len(line) == 0:
		return Field{}, false, nil
	}

	if isWhitespace(line[0]) {
		// obsolete line folding (RFC 9112, 5.2) is rejected, as it may be used to hide
		// a header from some intermediaries.
		return Field{}, false, status.ErrBadRequest
	}

	colon := bytes.IndexByte(line, ':')
	if colon == -1 {
		return Field{}, false, status.ErrBadRequest
	}

	name := uf.B2S(line[:colon])
	if !httpguts.ValidHeaderFieldName(name) {
		return Field{}, false, status.ErrBadRequest
	}

	return Field{
		Name:  name,
		Value: uf.B2S(trimWhitespaces(line[colon+1:])),
	}, true, nil
}

// Line reads a single short line, e.g. the chunk-size line. The returned slice is valid
// only until the next call.
func (s *Scanner) Line(ctx context.Context) ([]byte, error) {
	s.line.Clear()
	line, err := s.readLine(ctx, s.line, status.ErrBadChunk)
	if errors.Is(err, errNoData) {
		err = status.ErrConnectionClosed
	}

	return line, err
}

// errNoData is reported when the connection was closed before any byte of the line arrived.
var errNoData = errors.New("no data")

func (s *Scanner) readLine(ctx context.Context, buff *buffer.Buffer[byte], tooLong error) ([]byte, error) {
	started := false

	for {
		data, err := s.client.Read(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, err
			}

			if started {
				return nil, status.ErrConnectionClosed
			}

			return nil, errNoData
		}

		if len(data) == 0 {
			continue
		}

		started = true
		lf := bytes.IndexByte(data, '\n')
		if lf == -1 {
			if !buff.Append(data...) {
				return nil, tooLong
			}

			continue
		}

		if !buff.Append(data[:lf]...) {
			return nil, tooLong
		}

		s.client.Unread(data[lf+1:])
		line := buff.Finish()
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}

		return line, nil
	}
}

func parseStartLine(line []byte) (StartLine, error) {
	sp := bytes.IndexByte(line, ' ')
	if sp <= 0 {
		return StartLine{}, status.ErrBadRequest
	}

	method, rest := line[:sp], line[sp+1:]
	sp = bytes.LastIndexByte(rest, ' ')
	if sp <= 0 {
		return StartLine{}, status.ErrBadRequest
	}

	uri, version := rest[:sp], rest[sp+1:]
	if bytes.IndexByte(uri, ' ') != -1 || !httpguts.ValidHeaderFieldName(uf.B2S(method)) {
		return StartLine{}, status.ErrBadRequest
	}

	minor, ok := proto.FromBytes(version).Code()
	if !ok {
		if bytes.HasPrefix(version, []byte("HTTP/")) {
			return StartLine{}, status.ErrHTTPVersionNotSupported
		}

		return StartLine{}, status.ErrBadRequest
	}

	return StartLine{
		Method:  uf.B2S(method),
		URI:     uf.B2S(uri),
		Version: minor,
	}, nil
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t'
}

func trimWhitespaces(b []byte) []byte {
	for len(b) > 0 && isWhitespace(b[0]) {
		b = b[1:]
	}

	for len(b) > 0 && isWhitespace(b[len(b)-1]) {
		b = b[:len(b)-1]
	}

	return b
}
