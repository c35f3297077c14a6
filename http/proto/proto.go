package proto

import "github.com/indigo-web/utils/uf"

type Proto uint8

const (
	Unknown Proto = 0
	HTTP10  Proto = 1 << iota
	HTTP11

	HTTP1 = HTTP10 | HTTP11
)

func (p Proto) String() string {
	switch p {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	default:
		return ""
	}
}

const (
	protoTokenLength   = len("HTTP/x.x")
	majorVersionOffset = len("HTTP/x") - 1
	minorVersionOffset = len("HTTP/x.x") - 1
	httpScheme         = "HTTP/"
)

// FromCode maps the minor version digit of HTTP/1.x, as reported by the tokenizer,
// into the enum. Anything except 0 and 1 is Unknown.
func FromCode(minor uint8) Proto {
	switch minor {
	case 0:
		return HTTP10
	case 1:
		return HTTP11
	default:
		return Unknown
	}
}

// FromBytes parses the protocol token, e.g. HTTP/1.1
func FromBytes(raw []byte) Proto {
	if len(raw) != protoTokenLength || uf.B2S(raw[:majorVersionOffset]) != httpScheme {
		return Unknown
	}

	if raw[majorVersionOffset] != '1' || raw[majorVersionOffset+1] != '.' {
		return Unknown
	}

	return FromCode(raw[minorVersionOffset] - '0')
}

// Code returns the minor version digit of the protocol. Unknown protocols have no code.
func (p Proto) Code() (minor uint8, ok bool) {
	switch p {
	case HTTP10:
		return 0, true
	case HTTP11:
		return 1, true
	default:
		return 0, false
	}
}
