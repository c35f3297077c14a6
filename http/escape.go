package http

import "github.com/indigo-web/utils/uf"

// Escape returns a printable representation of untrusted request data, e.g. the URI,
// suitable for logs. Non-printable bytes are replaced by a backslash-prefixed mnemonic
// (\0, \n, \r, \t etc.) or \? if there's none. Printable strings are returned as is,
// without allocations.
func Escape(s string) string {
	var (
		buff   []byte
		offset int
	)

	for i := 0; i < len(s); i++ {
		if isPrintable(s[i]) {
			continue
		}

		if buff == nil {
			buff = make([]byte, 0, len(s)+len(s)/2)
		}

		buff = append(buff, s[offset:i]...)
		buff = append(buff, '\\', mnemonic(s[i]))
		offset = i + 1
	}

	if buff == nil {
		return s
	}

	return uf.B2S(append(buff, s[offset:]...))
}

func isPrintable(c byte) bool {
	return c >= 0x20 && c <= 0x7e
}

func mnemonic(c byte) byte {
	switch c {
	case 0x0:
		return '0'
	case '\a':
		return 'a'
	case '\b':
		return 'b'
	case '\t':
		return 't'
	case '\n':
		return 'n'
	case '\v':
		return 'v'
	case '\f':
		return 'f'
	case '\r':
		return 'r'
	default:
		return '?'
	}
}
