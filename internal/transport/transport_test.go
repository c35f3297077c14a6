package transport_test

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/indigo-web/framing/http/status"
	"github.com/indigo-web/framing/internal/transport"
	"github.com/indigo-web/framing/internal/transport/dummy"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("read and unread", func(t *testing.T) {
		conn := dummy.NewConn("Hello, world!")
		client := transport.NewClient(conn, time.Second, make([]byte, 5))

		data, err := client.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, "Hello", string(data))

		client.Unread(data[3:])
		data, err = client.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, "lo", string(data))

		data, err = client.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, ", wor", string(data))
	})

	t.Run("eof", func(t *testing.T) {
		client := transport.NewClient(dummy.NewConn(""), time.Second, make([]byte, 5))
		_, err := client.Read(ctx)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("cancellation interrupts a blocked read", func(t *testing.T) {
		server, peer := net.Pipe()
		defer peer.Close()
		client := transport.NewClient(server, time.Minute, make([]byte, 16))

		cctx, cancel := context.WithCancel(ctx)
		time.AfterFunc(50*time.Millisecond, cancel)

		_, err := client.Read(cctx)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("idle timeout", func(t *testing.T) {
		server, peer := net.Pipe()
		defer peer.Close()
		client := transport.NewClient(server, 10*time.Millisecond, make([]byte, 16))

		_, err := client.Read(ctx)
		require.ErrorIs(t, err, status.ErrRequestTimeout)
		require.Equal(t, status.RequestTimeout, status.CodeOf(err))
	})

	t.Run("already cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		client := transport.NewClient(dummy.NewConn("data"), time.Second, make([]byte, 16))
		_, err := client.Read(cctx)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("write and remote", func(t *testing.T) {
		conn := dummy.NewConn("")
		conn.Remote = &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080}
		client := transport.NewClient(conn, time.Second, nil)
		require.NoError(t, client.Write([]byte("pong")))
		require.Equal(t, "pong", string(conn.Written))
		require.Equal(t, "127.0.0.1:8080", client.Remote().String())
	})
}
