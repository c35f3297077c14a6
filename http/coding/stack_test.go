package coding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	t.Run("lifo", func(t *testing.T) {
		s := NewStack(0)
		s.Push("gzip", "br")
		s.Push("chunked")
		require.Equal(t, 3, s.Len())
		require.Equal(t, []string{"gzip", "br", "chunked"}, s.Tokens())

		for _, want := range []string{"chunked", "br", "gzip"} {
			top, ok := s.Top()
			require.True(t, ok)
			require.Equal(t, want, top)

			token, ok := s.Pop()
			require.True(t, ok)
			require.Equal(t, want, token)
		}

		require.True(t, s.Empty())
		_, ok := s.Pop()
		require.False(t, ok)
		require.Nil(t, s.Tokens())
	})

	t.Run("tokens are a copy", func(t *testing.T) {
		s := NewStack(2)
		s.Push("gzip")
		tokens := s.Tokens()
		tokens[0] = "deflate"

		top, _ := s.Top()
		require.Equal(t, "gzip", top)
	})

	t.Run("clear", func(t *testing.T) {
		s := NewStack(2)
		s.Push("gzip", "chunked")
		s.Clear()
		require.True(t, s.Empty())
	})
}
