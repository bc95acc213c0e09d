// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package park

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// lotBuckets must be a power of 2.
const lotBuckets = 64

var sharedLot = NewLot()

// Lot is a portable Parker keyed by word address.
//
// Waiters are kept in per-bucket FIFO lists. Wait compares the word under
// the bucket lock and Wake takes the same lock, which gives the same
// no-lost-wakeup guarantee as futex(2). Parked goroutines block on a
// channel and release their OS thread.
type Lot struct {
	buckets [lotBuckets]lotBucket
}

type lotBucket struct {
	mu      sync.Mutex
	waiters []*lotWaiter
	_       [64 - 32]byte
}

type lotWaiter struct {
	addr  *atomic.Uint32
	ready chan struct{}
}

// NewLot creates an empty parking lot.
func NewLot() *Lot {
	return &Lot{}
}

func (l *Lot) bucket(addr *atomic.Uint32) *lotBucket {
	h := uintptr(unsafe.Pointer(addr))
	h ^= h >> 9
	h ^= h >> 17
	return &l.buckets[(h>>2)&(lotBuckets-1)]
}

// Wait implements Parker.
func (l *Lot) Wait(addr *atomic.Uint32, expected uint32, timeout time.Duration) error {
	b := l.bucket(addr)
	b.mu.Lock()
	if addr.Load() != expected {
		b.mu.Unlock()
		return nil
	}
	w := &lotWaiter{addr: addr, ready: make(chan struct{})}
	b.waiters = append(b.waiters, w)
	b.mu.Unlock()

	if timeout < 0 {
		<-w.ready
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-w.ready:
		return nil
	case <-timer.C:
	}

	b.mu.Lock()
	removed := b.remove(w)
	b.mu.Unlock()
	if !removed {
		// Woken between expiry and relock.
		return nil
	}
	return ErrTimeout
}

// Wake implements Parker.
func (l *Lot) Wake(addr *atomic.Uint32, n int) int {
	b := l.bucket(addr)
	b.mu.Lock()
	woken := 0
	kept := b.waiters[:0]
	for _, w := range b.waiters {
		if w.addr == addr && (n <= 0 || woken < n) {
			close(w.ready)
			woken++
			continue
		}
		kept = append(kept, w)
	}
	clear(b.waiters[len(kept):])
	b.waiters = kept
	b.mu.Unlock()
	return woken
}

// Waiters reports how many goroutines are parked on addr.
func (l *Lot) Waiters(addr *atomic.Uint32) int {
	b := l.bucket(addr)
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, w := range b.waiters {
		if w.addr == addr {
			n++
		}
	}
	return n
}

func (b *lotBucket) remove(w *lotWaiter) bool {
	for i, x := range b.waiters {
		if x == w {
			copy(b.waiters[i:], b.waiters[i+1:])
			b.waiters[len(b.waiters)-1] = nil
			b.waiters = b.waiters[:len(b.waiters)-1]
			return true
		}
	}
	return false
}
