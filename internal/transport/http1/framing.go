package http1

import (
	"math"

	"github.com/indigo-web/framing/http"
	"github.com/indigo-web/framing/http/headers"
	"github.com/indigo-web/framing/http/proto"
	"github.com/indigo-web/framing/http/status"
	"github.com/indigo-web/utils/strcomp"
)

// Frame decides how the body of the request is delimited. The headers must be complete
// at this point. Content-Encoding tokens are pushed onto the request's encoding stack
// first, Transfer-Encoding ones on top of them, so the latter are unwound first. The
// chunked coding is removed from the stack, as the returned stream strips it.
//
// Ambiguous framing is never reconciled, as front- and back-ends disagreeing about the
// body boundaries is exactly what request smuggling relies on.
func (r *Reader) Frame(request *http.Request) (http.Stream, error) {
	hdrs := request.Headers

	if request.Protocol == proto.HTTP10 {
		if hosts, _ := hdrs.Get(headers.Host); len(hosts) != 1 {
			return nil, status.ErrInvalidHost
		}
	}

	te, chunked := hdrs.Get(headers.TransferEncoding)
	cl, sized := hdrs.Get(headers.ContentLength)
	if chunked && sized {
		return nil, status.ErrTransferEncodingAndContentLength
	}

	if ce, found := hdrs.Get(headers.ContentEncoding); found {
		request.Encoding.Push(ce...)
	}

	switch {
	case chunked:
		request.Encoding.Push(te...)
		if top, _ := request.Encoding.Top(); !strcomp.EqualFold(top, "chunked") {
			return nil, status.ErrUnknownBodyLength
		}

		request.Encoding.Pop()
		r.chunked.reset(request.Ctx, hdrs, r.cfg)
		return &r.chunked, nil
	case sized:
		length, err := contentLength(cl)
		if err != nil {
			return nil, err
		}

		if length > r.cfg.Body.MaxSize {
			return nil, status.ErrBodyTooLarge
		}

		r.sized.reset(request.Ctx, r.scanner.Client(), length)
		return &r.sized, nil
	default:
		return Empty, nil
	}
}

// contentLength returns the declared length. Multiple values are only tolerated when they
// are textually identical.
func contentLength(values []string) (uint64, error) {
	for _, value := range values[1:] {
		if value != values[0] {
			return 0, status.ErrInvalidContentLength
		}
	}

	length, ok := parseUint(values[0])
	if !ok {
		return 0, status.ErrInvalidContentLength
	}

	return length, nil
}

// parseUint parses a non-negative decimal integer. Signs, whitespaces and anything else
// except digits are rejected, as well as values overflowing uint64.
func parseUint(raw string) (value uint64, ok bool) {
	if len(raw) == 0 {
		return 0, false
	}

	for i := 0; i < len(raw); i++ {
		char := raw[i]
		if char < '0' || char > '9' {
			return 0, false
		}

		digit := uint64(char - '0')
		if value > (math.MaxUint64-digit)/10 {
			return 0, false
		}

		value = value*10 + digit
	}

	return value, true
}
