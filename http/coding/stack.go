package coding

// Identity stands for "no encoding", according to RFC
const Identity = "identity"

// Stack holds coding tokens wrapping the body, the outermost one on top. Content
// codings are always pushed before transfer codings, therefore consumers popping from
// the top unwind transfer codings first.
//
// A stack is owned by exactly one request and is never shared.
type Stack struct {
	tokens []string
}

func NewStack(prealloc int) *Stack {
	return &Stack{
		tokens: make([]string, 0, prealloc),
	}
}

// Push puts the tokens on top in the passed order, so the last one becomes the top.
func (s *Stack) Push(tokens ...string) {
	s.tokens = append(s.tokens, tokens...)
}

// Pop removes the top token. False is returned if the stack is empty.
func (s *Stack) Pop() (token string, ok bool) {
	token, ok = s.Top()
	if ok {
		s.tokens = s.tokens[:len(s.tokens)-1]
	}

	return token, ok
}

// Top returns the top token without removing it.
func (s *Stack) Top() (token string, ok bool) {
	if len(s.tokens) == 0 {
		return "", false
	}

	return s.tokens[len(s.tokens)-1], true
}

func (s *Stack) Len() int {
	return len(s.tokens)
}

func (s *Stack) Empty() bool {
	return len(s.tokens) == 0
}

// Tokens returns a copy of the stack, from the bottom to the top.
func (s *Stack) Tokens() []string {
	if len(s.tokens) == 0 {
		return nil
	}

	return append([]string(nil), s.tokens...)
}

func (s *Stack) Clear() {
	s.tokens = s.tokens[:0]
}
