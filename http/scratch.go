package http

import (
	"sync"
	"sync/atomic"
)

// scratch is the process-wide pool of buffers used for draining request bodies.
var scratch = new(scratchPool)

type scratchPool struct {
	pool sync.Pool
	// inUse counts acquired but not yet released buffers.
	inUse atomic.Int64
}

// Acquire returns a buffer of exactly the size. It must be given back via Release
// on every path.
func (s *scratchPool) Acquire(size int) *[]byte {
	s.inUse.Add(1)

	if buff, ok := s.pool.Get().(*[]byte); ok && cap(*buff) >= size {
		*buff = (*buff)[:size]
		return buff
	}

	buff := make([]byte, size)
	return &buff
}

func (s *scratchPool) Release(buff *[]byte) {
	s.inUse.Add(-1)
	s.pool.Put(buff)
}

// InUse returns the number of buffers currently acquired.
func (s *scratchPool) InUse() int64 {
	return s.inUse.Load()
}
