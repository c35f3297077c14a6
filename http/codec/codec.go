package codec

import (
	"errors"
	"io"

	"github.com/indigo-web/framing/http/coding"
	"github.com/indigo-web/framing/http/status"
	"github.com/indigo-web/utils/strcomp"
)

// Codec removes a single content coding.
type Codec interface {
	// Token returns a coding token associated with the codec itself.
	Token() string
	// NewReader wraps the encoded source.
	NewReader(source io.Reader) (io.ReadCloser, error)
}

type baseCodec struct {
	token     string
	newReader func(io.Reader) (io.ReadCloser, error)
}

func (b baseCodec) Token() string {
	return b.token
}

func (b baseCodec) NewReader(source io.Reader) (io.ReadCloser, error) {
	return b.newReader(source)
}

// Set is a collection of codecs, looked up by their tokens case-insensitively.
type Set struct {
	codecs []Codec
}

func NewSet(codecs ...Codec) Set {
	return Set{codecs: codecs}
}

// Default returns the set of all the codecs available out of the box.
func Default() Set {
	return NewSet(NewGZIP(), NewDeflate(), NewZSTD())
}

// Get returns the codec by its token.
func (s Set) Get(token string) (Codec, bool) {
	for _, c := range s.codecs {
		if strcomp.EqualFold(c.Token(), token) {
			return c, true
		}
	}

	return nil, false
}

// Decode pops codings off the stack one by one, wrapping the source into the decoders.
// The top of the stack is the outermost coding, so it's removed first. Identity codings
// are skipped. If any of the tokens isn't supported, status.ErrUnsupportedEncoding is
// returned; the stack is left with the unsupported token on top in this case.
func (s Set) Decode(stack *coding.Stack, source io.Reader) (io.ReadCloser, error) {
	chain := &decoderChain{Reader: source}

	for {
		token, ok := stack.Top()
		if !ok {
			return chain, nil
		}

		if strcomp.EqualFold(token, coding.Identity) {
			stack.Pop()
			continue
		}

		c, found := s.Get(token)
		if !found {
			return nil, errors.Join(status.ErrUnsupportedEncoding, chain.Close())
		}

		decoder, err := c.NewReader(chain.Reader)
		if err != nil {
			return nil, errors.Join(err, chain.Close())
		}

		stack.Pop()
		chain.Reader = decoder
		chain.closers = append(chain.closers, decoder)
	}
}

type decoderChain struct {
	io.Reader
	closers []io.Closer
}

// Close closes every decoder in the chain, the outermost last.
func (d *decoderChain) Close() (err error) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, d.closers[i].Close())
	}

	d.closers = nil

	return err
}
