package headers

// Names of the fields the framing depends on. Lookup is case-insensitive anyway, so the
// canonical form is used only for readability and when fields are produced.
const (
	Host             = "Host"
	ContentLength    = "Content-Length"
	TransferEncoding = "Transfer-Encoding"
	ContentEncoding  = "Content-Encoding"
	Connection       = "Connection"
)
