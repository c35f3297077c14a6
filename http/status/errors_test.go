package status

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	t.Run("framing errors are bad requests", func(t *testing.T) {
		for _, err := range []error{
			ErrInvalidHost,
			ErrTransferEncodingAndContentLength,
			ErrUnknownBodyLength,
			ErrInvalidContentLength,
			ErrBadChunk,
		} {
			require.Equal(t, BadRequest, CodeOf(err), err.Error())
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("reading body: %w", ErrBodyTooLarge)
		require.Equal(t, RequestEntityTooLarge, CodeOf(err))
		require.ErrorIs(t, err, ErrBodyTooLarge)
	})

	t.Run("connection closed", func(t *testing.T) {
		require.Equal(t, CloseConnection, CodeOf(ErrConnectionClosed))
	})

	t.Run("foreign", func(t *testing.T) {
		require.Equal(t, InternalServerError, CodeOf(io.ErrUnexpectedEOF))
	})
}

func TestText(t *testing.T) {
	require.Equal(t, Status("Bad Request"), Text(BadRequest))
	require.Empty(t, Text(Code(799)))
}
