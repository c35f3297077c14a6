package codec

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

func NewGZIP() Codec {
	return baseCodec{
		token: "gzip",
		newReader: func(source io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(source)
		},
	}
}
