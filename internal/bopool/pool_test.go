package bopool

import (
	"errors"
	"testing"
)

// fakeAllocator hands out incrementing handles and records every free so
// tests can balance the books.

type fakeAllocator struct {
	next   uint64
	allocs int
	frees  []uint64
	failOn uint64
}

func (a *fakeAllocator) Alloc(size int) (Buffer, error) {
	a.next++
	a.allocs++
	return Buffer{Handle: a.next, Data: make([]byte, size)}, nil
}

func (a *fakeAllocator) Free(bo Buffer) error {
	a.frees = append(a.frees, bo.Handle)
	if a.failOn != 0 && bo.Handle == a.failOn {
		return errors.New("free failed")
	}
	return nil
}

func TestPoolReusesReleasedBuffers(t *testing.T) {
	t.Parallel()

	alloc := &fakeAllocator{}
	p := New(alloc, 0, 4)

	bo, err := p.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(bo.Data) != DefaultBufSize {
		t.Fatalf("buffer size: got %d want %d", len(bo.Data), DefaultBufSize)
	}
	if err := p.Put(bo); err != nil {
		t.Fatalf("put: %v", err)
	}
	if p.Cached() != 1 {
		t.Fatalf("cached: got %d want 1", p.Cached())
	}

	again, err := p.Get()
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.Handle != bo.Handle {
		t.Fatalf("expected cached buffer %d, got %d", bo.Handle, again.Handle)
	}
	if alloc.allocs != 1 {
		t.Fatalf("allocs: got %d want 1", alloc.allocs)
	}
	if len(alloc.frees) != 0 {
		t.Fatalf("unexpected frees: %v", alloc.frees)
	}
}

func TestPoolLIFOOrder(t *testing.T) {
	t.Parallel()

	alloc := &fakeAllocator{}
	p := New(alloc, 64, 4)

	a, _ := p.Get()
	b, _ := p.Get()
	_ = p.Put(a)
	_ = p.Put(b)

	got, err := p.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Handle != b.Handle {
		t.Fatalf("expected most recently released buffer %d, got %d", b.Handle, got.Handle)
	}
}

func TestPoolCapAndDisabledCache(t *testing.T) {
	t.Parallel()

	alloc := &fakeAllocator{}
	p := New(alloc, 64, 2)

	a, _ := p.Get()
	b, _ := p.Get()
	c, _ := p.Get()
	_ = p.Put(a)
	_ = p.Put(b)
	if err := p.Put(c); err != nil {
		t.Fatalf("put over cap: %v", err)
	}
	if p.Cached() != 2 {
		t.Fatalf("cached: got %d want 2", p.Cached())
	}
	if len(alloc.frees) != 1 || alloc.frees[0] != c.Handle {
		t.Fatalf("overflow should free newest release: %v", alloc.frees)
	}

	// max == 0 disables caching entirely.
	disabled := New(alloc, 64, 0)
	d, _ := disabled.Get()
	if err := disabled.Put(d); err != nil {
		t.Fatalf("put with caching disabled: %v", err)
	}
	if disabled.Cached() != 0 {
		t.Fatalf("disabled pool cached a buffer")
	}
	if alloc.frees[len(alloc.frees)-1] != d.Handle {
		t.Fatalf("disabled pool did not free: %v", alloc.frees)
	}
}

func TestPoolClose(t *testing.T) {
	t.Parallel()

	alloc := &fakeAllocator{}
	p := New(alloc, 64, 4)

	held, _ := p.Get()
	parked, _ := p.Get()
	_ = p.Put(parked)

	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(alloc.frees) != 1 || alloc.frees[0] != parked.Handle {
		t.Fatalf("close should free parked buffers: %v", alloc.frees)
	}

	if _, err := p.Get(); !errors.Is(err, ErrClosed) {
		t.Fatalf("get after close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("double close: %v", err)
	}

	// A buffer still in flight at close time is freed on Put.
	if err := p.Put(held); err != nil {
		t.Fatalf("put after close: %v", err)
	}
	if alloc.frees[len(alloc.frees)-1] != held.Handle {
		t.Fatalf("late put not freed: %v", alloc.frees)
	}
}

func TestPoolCloseReportsFirstFreeError(t *testing.T) {
	t.Parallel()

	alloc := &fakeAllocator{}
	p := New(alloc, 64, 4)

	a, _ := p.Get()
	b, _ := p.Get()
	_ = p.Put(a)
	_ = p.Put(b)
	alloc.failOn = b.Handle

	if err := p.Close(); err == nil {
		t.Fatalf("expected close to surface the free failure")
	}
	if len(alloc.frees) != 2 {
		t.Fatalf("close must attempt every cached buffer: %v", alloc.frees)
	}
}
