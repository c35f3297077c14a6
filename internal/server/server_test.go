package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/indigo-web/framing/config"
	"github.com/indigo-web/framing/http"
	"github.com/indigo-web/framing/http/status"
	"github.com/indigo-web/framing/internal/transport"
	"github.com/indigo-web/framing/internal/transport/dummy"
	"github.com/stretchr/testify/require"
)

type served struct {
	Method, URI, Body string
}

// recorder echoes request bodies back, remembering everything it has seen.
type recorder struct {
	requests []served
	errors   []error
	// skipBody makes the handler leave the body untouched.
	skipBody bool
	fail     error
}

func (r *recorder) OnRequest(request *http.Request, w Writer) error {
	if r.fail != nil {
		return r.fail
	}

	entry := served{Method: request.Method, URI: request.URI}
	if !r.skipBody {
		body, err := request.Body()
		if err != nil {
			return err
		}

		entry.Body, err = body.String()
		if err != nil {
			return err
		}
	}

	r.requests = append(r.requests, entry)
	return w.Write([]byte(fmt.Sprintf(
		"HTTP/1.1 200 OK\r\nContent-Length: %d\r\n\r\n%s", len(entry.Body), entry.Body,
	)))
}

func (r *recorder) OnError(_ *http.Request, w Writer, err error) {
	r.errors = append(r.errors, err)
	code := status.CodeOf(err)
	if code == status.CloseConnection {
		return
	}

	_ = w.Write([]byte(fmt.Sprintf("HTTP/1.1 %d %s\r\nConnection: close\r\n\r\n", code, status.Text(code))))
}

func serve(handler Handler, pieces ...string) (*dummy.Client, *bytes.Buffer) {
	logs := new(bytes.Buffer)
	client := dummy.NewStringClient(pieces...)
	srv := NewServer(config.Default(), handler, log.New(logs, "", 0))
	srv.Run(context.Background(), client)

	return client, logs
}

func TestServer(t *testing.T) {
	t.Run("pipelined keep-alive", func(t *testing.T) {
		handler := new(recorder)
		client, logs := serve(handler,
			"POST /sized HTTP/1.1\r\nContent-Length: 5\r\n\r\nHello"+
				"POST /chunked HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n4\r\nWiki\r\n5\r\npedia\r\n0\r\n\r\n",
			"GET /empty HTTP/1.1\r\n\r\n",
		)

		require.Equal(t, []served{
			{Method: "POST", URI: "/sized", Body: "Hello"},
			{Method: "POST", URI: "/chunked", Body: "Wikipedia"},
			{Method: "GET", URI: "/empty"},
		}, handler.requests)
		require.Empty(t, handler.errors)
		require.True(t, client.Closed())
		require.Empty(t, logs.String())
		require.Equal(t, 3, strings.Count(client.Written(), "HTTP/1.1 200 OK"))
	})

	t.Run("unread bodies are drained", func(t *testing.T) {
		handler := &recorder{skipBody: true}
		serve(handler,
			"POST /first HTTP/1.1\r\nContent-Length: 13\r\n\r\nHello, world!",
			"POST /second HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n",
			"4\r\nWiki\r\n0\r\n\r\n",
			"GET /third HTTP/1.1\r\n\r\n",
		)

		require.Equal(t, []served{
			{Method: "POST", URI: "/first"},
			{Method: "POST", URI: "/second"},
			{Method: "GET", URI: "/third"},
		}, handler.requests)
	})

	t.Run("framing error closes the connection", func(t *testing.T) {
		handler := new(recorder)
		client, _ := serve(handler,
			"POST / HTTP/1.1\r\nContent-Length: 5\r\nTransfer-Encoding: chunked\r\n\r\n",
			"GET /smuggled HTTP/1.1\r\n\r\n",
		)

		require.Empty(t, handler.requests)
		require.Len(t, handler.errors, 1)
		require.ErrorIs(t, handler.errors[0], status.ErrTransferEncodingAndContentLength)
		require.True(t, strings.HasPrefix(client.Written(), "HTTP/1.1 400 Bad Request\r\n"))
		require.True(t, client.Closed())
	})

	t.Run("malformed start-line", func(t *testing.T) {
		handler := new(recorder)
		client, _ := serve(handler, "GET / HTTP/2.0\r\n\r\n")
		require.Len(t, handler.errors, 1)
		require.ErrorIs(t, handler.errors[0], status.ErrHTTPVersionNotSupported)
		require.True(t, strings.HasPrefix(client.Written(), "HTTP/1.1 505 "))
	})

	t.Run("closed between requests", func(t *testing.T) {
		handler := new(recorder)
		client, _ := serve(handler)
		require.Empty(t, handler.errors)
		require.Empty(t, client.Written())
		require.True(t, client.Closed())
	})

	t.Run("closed in the middle of a request", func(t *testing.T) {
		handler := new(recorder)
		client, _ := serve(handler, "GET / HTTP/1.1\r\nHost: loc")
		require.Len(t, handler.errors, 1)
		require.ErrorIs(t, handler.errors[0], status.ErrConnectionClosed)
		require.Empty(t, client.Written())
	})

	t.Run("connection close", func(t *testing.T) {
		handler := new(recorder)
		serve(handler,
			"GET /first HTTP/1.1\r\nConnection: keep-alive, Close\r\n\r\n",
			"GET /second HTTP/1.1\r\n\r\n",
		)
		require.Len(t, handler.requests, 1)
	})

	t.Run("HTTP/1.0", func(t *testing.T) {
		handler := new(recorder)
		serve(handler,
			"GET /first HTTP/1.0\r\nHost: a\r\n\r\n",
			"GET /second HTTP/1.0\r\nHost: a\r\n\r\n",
		)
		require.Len(t, handler.requests, 1)

		handler = new(recorder)
		serve(handler,
			"GET /first HTTP/1.0\r\nHost: a\r\nConnection: Keep-Alive\r\n\r\n",
			"GET /second HTTP/1.0\r\nHost: a\r\n\r\n",
		)
		require.Len(t, handler.requests, 2)
	})

	t.Run("handler error", func(t *testing.T) {
		handler := &recorder{fail: errors.New("something went wrong")}
		client, logs := serve(handler, "GET /a\x00b HTTP/1.1\r\n\r\n", "GET / HTTP/1.1\r\n\r\n")
		require.Contains(t, logs.String(), `GET /a\0b: handler: something went wrong`)
		require.Empty(t, handler.errors)
		require.True(t, client.Closed())
	})

	t.Run("drain failure", func(t *testing.T) {
		handler := &recorder{skipBody: true}
		_, logs := serve(handler, "POST /upload HTTP/1.1\r\nContent-Length: 100\r\n\r\nshort")
		require.Len(t, handler.requests, 1)
		require.Contains(t, logs.String(), "POST /upload: drain: ")
	})
}

func TestServe(t *testing.T) {
	cfg := config.Default()
	cfg.NET.AcceptLoopInterruptPeriod = 50 * time.Millisecond
	srv := NewServer(cfg, new(recorder), log.New(io.Discard, "", 0))

	tcp := transport.NewTCP()
	require.NoError(t, tcp.Bind("127.0.0.1:0"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, tcp)
	}()

	conn, err := net.Dial("tcp", tcp.Addr().String())
	require.NoError(t, err)
	_, err = conn.Write([]byte(
		"POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nHello\r\n0\r\n\r\n" +
			"GET / HTTP/1.1\r\nConnection: close\r\n\r\n",
	))
	require.NoError(t, err)

	response, err := io.ReadAll(conn)
	require.NoError(t, err)
	require.Equal(t,
		"HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nHello"+
			"HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n",
		string(response),
	)
	require.NoError(t, conn.Close())

	// an idle connection must not prevent the server from stopping
	idle, err := net.Dial("tcp", tcp.Addr().String())
	require.NoError(t, err)
	defer idle.Close()

	cancel()
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server didn't stop")
	}
}
