package http

import (
	"errors"
	"io"

	"github.com/indigo-web/framing/config"
	"github.com/indigo-web/framing/http/codec"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// minBufferSize is the initial capacity of the buffer, storing the whole body in case
// Bytes() is called.
const minBufferSize = 512

// Body is the only entity providing access to the request body. Whatever error the
// underlying stream returns, including io.EOF, is sticky: every next read returns it
// without touching the stream.
type Body struct {
	stream  Stream
	request *Request
	cfg     *config.Config
	buff    []byte
	full    bool
	err     error
}

func newBody(request *Request, cfg *config.Config) *Body {
	return &Body{
		request: request,
		cfg:     cfg,
	}
}

// Read implements the io.Reader interface.
func (b *Body) Read(into []byte) (n int, err error) {
	if b.err != nil {
		return 0, b.err
	}

	n, b.err = b.stream.Read(into)
	return n, b.err
}

// Bytes returns the rest of the body at once in a byte representation. The result is
// cached, so consequent calls return the same slice.
func (b *Body) Bytes() ([]byte, error) {
	if b.full {
		return b.buff, nil
	}

	if b.buff == nil {
		b.buff = make([]byte, 0, minBufferSize)
	}

	for {
		if len(b.buff) == cap(b.buff) {
			b.buff = append(b.buff, 0)[:len(b.buff)]
		}

		n, err := b.Read(b.buff[len(b.buff):cap(b.buff)])
		b.buff = b.buff[:len(b.buff)+n]
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			b.full = true
			return b.buff, nil
		default:
			return nil, err
		}
	}
}

// String returns the whole body at once in a string representation.
func (b *Body) String() (string, error) {
	bytes, err := b.Bytes()
	return uf.B2S(bytes), err
}

// JSON convoys the request's body to a json unmarshaller automatically and behaves
// in a similar manner. Content codings aren't removed.
func (b *Body) JSON(model any) error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}

	iterator := json.ConfigDefault.BorrowIterator(data)
	iterator.ReadVal(model)
	err = iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	return err
}

// Decoded removes all the content codings, popping them off the request's encoding stack,
// and returns the reader of the plain body. The returned reader must be closed.
func (b *Body) Decoded(codecs codec.Set) (io.ReadCloser, error) {
	return codecs.Decode(b.request.Encoding, b)
}

// Discard discards the rest of the body (if any). If no networking or framing error was
// encountered, nil is returned.
func (b *Body) Discard() error {
	buff := scratch.Acquire(b.cfg.Body.DrainBufferSize)
	defer scratch.Release(buff)

	for {
		if _, err := b.Read(*buff); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}
	}
}

func (b *Body) reset(stream Stream) {
	b.stream = stream
	b.buff = b.buff[:0]
	b.full = false
	b.err = nil
}
