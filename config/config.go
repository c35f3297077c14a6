package config

import (
	"time"
)

type (
	HeadersNumber struct {
		Default, Maximal int
	}

	HeadersSpace struct {
		Default, Maximal int
	}

	URIRequestLineSize struct {
		Default, Maximal int
	}
)

type (
	URI struct {
		// RequestLineSize limits the buffer storing the request line. Default is the initial
		// capacity, Maximal is the hard limit, exceeding which results in status.ErrTooLongRequestLine.
		RequestLineSize URIRequestLineSize
	}

	Headers struct {
		// Number is responsible for the number of header lines.
		// Default value is an initial capacity of the headers storage.
		// Maximal value is maximum number of header lines allowed to be presented (trailer
		// fields of a chunked body count separately against the same limit.)
		Number HeadersNumber
		// Space limits the amount of memory occupied by request headers, including trailer
		// fields of a chunked body.
		Space HeadersSpace
		// MaxValuesPerField limits how many comma-separated values a single header line
		// may carry.
		MaxValuesPerField int
	}

	Body struct {
		// MaxSize describes the maximal size of a body, that can be processed. Requests
		// declaring a bigger Content-Length are rejected with status.ErrBodyTooLarge straight
		// away, chunked bodies fail as soon as they overflow it. In order to disable the
		// setting, use the math.MaxUint64 value.
		MaxSize uint64
		// DrainBufferSize is the size of the scratch buffer, used to discard the rest of
		// the body before the next request on the same connection is served.
		DrainBufferSize int
		// ChunkLineSize limits the length of a single chunk-size line, including chunk
		// extensions, which are otherwise ignored.
		ChunkLineSize int
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections. If no data was
		// received in this period of time, it'll be closed.
		ReadTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
	}
)

// Config holds settings used across various parts of the server, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	URI     URI
	Headers Headers
	Body    Body
	NET     NET
}

// Default returns default config. Those are initially well-balanced, however maximal defaults
// are pretty permitting.
func Default() *Config {
	return &Config{
		URI: URI{
			RequestLineSize: URIRequestLineSize{
				Default: 2 * 1024,
				// allow at most 16kb of request line, which is effectively pretty much tolerant,
				// considering most web-entities limit it to 4-8kb.
				Maximal: 16 * 1024,
			},
		},
		Headers: Headers{
			Number: HeadersNumber{
				Default: 10,
				Maximal: 50,
			},
			Space: HeadersSpace{
				Default: 1 * 1024,  // 1kb for headers must be fairly enough in most cases.
				Maximal: 16 * 1024, // However, there also might be extremely long cookies.
			},
			MaxValuesPerField: 64,
		},
		Body: Body{
			MaxSize:         512 * 1024 * 1024, // 512 megabytes
			DrainBufferSize: 4 * 1024,
			ChunkLineSize:   1024,
		},
		NET: NET{
			ReadBufferSize:            4 * 1024,
			ReadTimeout:               90 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
	}
}
