package status

import "errors"

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	// ErrConnectionClosed is returned when the stream ends before a complete start-line,
	// header block or body was received. Nothing must be written back.
	ErrConnectionClosed = NewError(CloseConnection, "connection closed before the message was complete")

	// Framing errors. None of them is ever retried: the request can't be safely delimited,
	// so after responding, the connection must be closed.
	ErrInvalidHost                      = NewError(BadRequest, "HTTP/1.0 request must carry exactly one Host header")
	ErrTransferEncodingAndContentLength = NewError(BadRequest, "both Transfer-Encoding and Content-Length are presented")
	ErrUnknownBodyLength                = NewError(BadRequest, "the final transfer coding is not chunked")
	ErrInvalidContentLength             = NewError(BadRequest, "invalid Content-Length value")
	ErrBadChunk                         = NewError(BadRequest, "malformed chunk-encoded data")

	ErrBadRequest              = NewError(BadRequest, "bad request")
	ErrRequestTimeout          = NewError(RequestTimeout, "no data was received in time")
	ErrTooLongRequestLine      = NewError(RequestURITooLong, "request line is too long")
	ErrHeaderFieldsTooLarge    = NewError(RequestHeaderFieldsTooLarge, "too large header field")
	ErrTooManyHeaders          = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrTooManyValues           = NewError(RequestHeaderFieldsTooLarge, "too many values in a single header field")
	ErrBodyTooLarge            = NewError(RequestEntityTooLarge, "request body is too large")
	ErrUnsupportedEncoding     = NewError(UnsupportedMediaType, "encoding is not supported")
	ErrHTTPVersionNotSupported = NewError(HTTPVersionNotSupported, "HTTP version not supported")
	ErrInternalServerError     = NewError(InternalServerError, "internal server error")
)

// CodeOf returns the status code the error must be answered with. Errors not carrying
// any code are considered internal.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}
