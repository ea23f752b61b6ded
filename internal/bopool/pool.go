// Package bopool caches fixed-size command buffers between submissions so
// the dispatch path skips allocator round-trips. The device-side allocator
// is injected; this package never touches a driver.
package bopool

import (
	"errors"
	"sync"
)

// DefaultBufSize is the standard command buffer size: one page, the
// allocation granularity of the device layers this pool fronts.
const DefaultBufSize = 4096

// Buffer is one command buffer: the device handle plus its mapped bytes.
// The contents belong to the holder between Get and Put; nothing may be
// retained afterwards.
type Buffer struct {
	Handle uint64
	Data   []byte
}

// Allocator is the device-side buffer factory. Implementations live with
// the driver bindings.
type Allocator interface {
	Alloc(size int) (Buffer, error)
	Free(bo Buffer) error
}

var ErrClosed = errors.New("bopool: pool is closed")

// Pool hands out command buffers of one fixed size and keeps up to max
// released buffers on a freelist. A max of zero disables caching; every
// Put then frees immediately.
type Pool struct {
	alloc Allocator
	size  int
	max   int

	mu     sync.Mutex
	free   []Buffer
	closed bool
}

// New creates a pool over alloc. A non-positive size selects
// DefaultBufSize.
func New(alloc Allocator, size, max int) *Pool {
	if size <= 0 {
		size = DefaultBufSize
	}
	return &Pool{alloc: alloc, size: size, max: max}
}

// BufSize returns the fixed size of the buffers this pool hands out.
func (p *Pool) BufSize() int {
	return p.size
}

// Get returns the most recently released cached buffer when one is
// available, else a fresh allocation.
func (p *Pool) Get() (Buffer, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return Buffer{}, ErrClosed
	}
	if n := len(p.free); n > 0 {
		bo := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return bo, nil
	}
	p.mu.Unlock()

	return p.alloc.Alloc(p.size)
}

// Put releases a buffer back to the pool. When the freelist is full, or
// caching is disabled, or the pool is closed, the buffer goes back to the
// allocator instead.
func (p *Pool) Put(bo Buffer) error {
	p.mu.Lock()
	if !p.closed && len(p.free) < p.max {
		p.free = append(p.free, bo)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	return p.alloc.Free(bo)
}

// Close frees every cached buffer. Buffers still held by callers remain
// valid; a later Put frees them immediately.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	free := p.free
	p.free = nil
	p.mu.Unlock()

	var firstErr error
	for _, bo := range free {
		if err := p.alloc.Free(bo); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Cached returns the number of buffers currently parked on the freelist.
func (p *Pool) Cached() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
