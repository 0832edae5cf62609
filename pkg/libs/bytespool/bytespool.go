package bytespool

import (
	"sync"

	"go.uber.org/zap"
)

// BytesPool keeps up to poolSize released chunks of bytesLen bytes for reuse.
// Chunks are zeroed when they are put back, so a chunk handed out never carries
// data of its previous holder.
type BytesPool struct {
	mu       sync.Mutex
	free     [][]byte
	poolSize int
	bytesLen int

	allocations uint64
	putCalled   uint64
	getCalled   uint64
}

// NewBytesPool creates a pool holding at most poolSize free chunks of bytesLength bytes each.
func NewBytesPool(poolSize int, bytesLength int) *BytesPool {
	if poolSize < 1 {
		panic("poolSize should be positive")
	}
	if bytesLength < 1 {
		panic("bytesLen should be positive")
	}
	return &BytesPool{
		free:     make([][]byte, 0, poolSize),
		poolSize: poolSize,
		bytesLen: bytesLength,
	}
}

// Get returns a free chunk or allocates a new one when the pool is empty.
func (a *BytesPool) Get() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.getCalled++
	n := len(a.free)
	if n == 0 {
		a.allocations++
		return make([]byte, a.bytesLen)
	}
	bts := a.free[n-1]
	a.free[n-1] = nil
	a.free = a.free[:n-1]
	return bts
}

// Put returns a chunk to the pool. Chunks of a foreign length are dropped, as are chunks
// that arrive when the pool is already full.
func (a *BytesPool) Put(bts []byte) {
	if len(bts) != a.bytesLen {
		zap.S().Warnf("BytesPool Put expected bytesLen %d, passed %d", a.bytesLen, len(bts))
		return
	}
	clear(bts)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.putCalled++
	if len(a.free) >= a.poolSize {
		return
	}
	a.free = append(a.free, bts)
}

func (a *BytesPool) BytesLen() int {
	return a.bytesLen
}

func (a *BytesPool) Allocations() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocations
}

// Free returns the number of chunks waiting in the pool.
func (a *BytesPool) Free() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.free)
}

func (a *BytesPool) Stat() (allocations, puts, gets uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocations, a.putCalled, a.getCalled
}
