package http1

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/indigo-web/framing/config"
	"github.com/indigo-web/framing/http"
	"github.com/indigo-web/framing/http/headers"
	"github.com/indigo-web/framing/http/status"
	"github.com/indigo-web/framing/internal/hexconv"
	"github.com/indigo-web/framing/internal/transport"
)

// Empty is the body of requests carrying no framing headers. It's stateless, so the only
// instance is shared across all the requests.
var Empty http.Stream = empty{}

type empty struct{}

func (empty) Read([]byte) (int, error) {
	return 0, io.EOF
}

// Sized is a body delimited by Content-Length. Bytes past the declared length are never
// consumed: they're given back to the client, as they belong to the next request.
type Sized struct {
	ctx    context.Context
	client transport.Client
	left   uint64
}

func (s *Sized) reset(ctx context.Context, client transport.Client, length uint64) {
	s.ctx, s.client, s.left = ctx, client, length
}

func (s *Sized) Read(into []byte) (int, error) {
	if s.left == 0 {
		return 0, io.EOF
	}

	if len(into) == 0 {
		return 0, nil
	}

	data, err := s.client.Read(s.ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = status.ErrConnectionClosed
		}

		return 0, err
	}

	n := copy(into, data[:min(uint64(len(data)), s.left)])
	s.client.Unread(data[n:])
	s.left -= uint64(n)

	return n, nil
}

type chunkedState uint8

const (
	eChunkSize chunkedState = iota
	eChunkData
	eChunkCRLF
)

// maxChunkSizeDigits limits the chunk-size to what fits into uint64.
const maxChunkSizeDigits = 16

// Chunked decodes the chunked transfer coding. Chunk extensions are ignored, trailer
// fields are merged into the request headers once the terminating chunk is met. Any error,
// as well as io.EOF, is sticky.
type Chunked struct {
	ctx      context.Context
	scanner  *Scanner
	hdrs     *headers.Headers
	cfg      *config.Config
	state    chunkedState
	left     uint64
	received uint64
	err      error
}

func (c *Chunked) reset(ctx context.Context, hdrs *headers.Headers, cfg *config.Config) {
	c.ctx, c.hdrs, c.cfg = ctx, hdrs, cfg
	c.state = eChunkSize
	c.left, c.received = 0, 0
	c.err = nil
}

func (c *Chunked) Read(into []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}

	for {
		switch c.state {
		case eChunkSize:
			size, err := c.chunkSize()
			if err != nil {
				return 0, c.fail(err)
			}

			if size == 0 {
				if err = ReadFields(c.ctx, c.scanner, c.hdrs, c.cfg.Headers); err != nil {
					return 0, c.fail(chunkErr(err))
				}

				return 0, c.fail(io.EOF)
			}

			if size > c.cfg.Body.MaxSize-c.received {
				return 0, c.fail(status.ErrBodyTooLarge)
			}

			c.received += size
			c.left = size
			c.state = eChunkData
		case eChunkData:
			if len(into) == 0 {
				return 0, nil
			}

			client := c.scanner.Client()
			data, err := client.Read(c.ctx)
			if err != nil {
				return 0, c.fail(chunkErr(err))
			}

			n := copy(into, data[:min(uint64(len(data)), c.left)])
			client.Unread(data[n:])
			c.left -= uint64(n)
			if c.left == 0 {
				c.state = eChunkCRLF
			}

			return n, nil
		case eChunkCRLF:
			line, err := c.scanner.Line(c.ctx)
			if err != nil {
				return 0, c.fail(chunkErr(err))
			}

			if len(line) > 0 {
				return 0, c.fail(status.ErrBadChunk)
			}

			c.state = eChunkSize
		}
	}
}

func (c *Chunked) chunkSize() (uint64, error) {
	line, err := c.scanner.Line(c.ctx)
	if err != nil {
		return 0, chunkErr(err)
	}

	if semicolon := bytes.IndexByte(line, ';'); semicolon != -1 {
		line = line[:semicolon]
	}

	size, ok := hexconv.Parse(bytes.TrimRight(line, " \t"), maxChunkSizeDigits)
	if !ok {
		return 0, status.ErrBadChunk
	}

	return size, nil
}

func (c *Chunked) fail(err error) error {
	c.err = err
	return err
}

// chunkErr reports the connection being closed in the middle of the body as malformed
// chunked data. Other errors, like cancellation, are passed as is.
func chunkErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, status.ErrConnectionClosed) {
		return status.ErrBadChunk
	}

	return err
}
