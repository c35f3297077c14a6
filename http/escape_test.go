package http

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func allocs(str string) int {
	return int(testing.Benchmark(func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = Escape(str)
		}
	}).AllocsPerOp())
}

func TestEscape(t *testing.T) {
	t.Run("printable", func(t *testing.T) {
		require.Equal(t, "/", Escape("/"))
		require.Equal(t, "/hello?world=1", Escape("/hello?world=1"))
		require.Zero(t, allocs("/hello-world"))
	})

	t.Run("non-printable", func(t *testing.T) {
		require.Equal(t, `/\0\n\?`, Escape("/\x00\n\x7f"))
		require.Equal(t, `GET / HTTP/1.1\r\n`, Escape("GET / HTTP/1.1\r\n"))
		require.Equal(t, `\?\?`, Escape("\xd0\xbf"))
		require.Equal(t, 1, allocs("/\x00\n\x7f"))
	})
}
