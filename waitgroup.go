// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq

import (
	"sync/atomic"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/chq/internal/park"
)

// WaitGroup counts outstanding work and lets callers wait for it to
// reach zero with a chosen WaitStrategy.
//
// Unlike sync.WaitGroup, Wait may spin instead of parking, and
// WaitTimed gives up at a deadline. Push may be called while others
// wait; waiters return the first time they observe zero.
//
// The zero value is ready to use. A WaitGroup must not be copied after
// first use.
type WaitGroup struct {
	count   atomix.Int64
	epoch   atomic.Uint32 // Park word, bumped when count drops to zero
	waiters atomic.Int32
}

// Push adds n units of outstanding work. Panics if n < 0.
func (wg *WaitGroup) Push(n int) {
	if n < 0 {
		panic("chq: negative WaitGroup push")
	}
	wg.count.Add(int64(n))
}

// Pop marks n units as done and wakes all waiters when the count
// reaches zero. Panics if n < 0 or the count would go negative.
func (wg *WaitGroup) Pop(n int) {
	if n < 0 {
		panic("chq: negative WaitGroup pop")
	}
	if n == 0 {
		return
	}
	v := wg.count.Add(-int64(n))
	if v < 0 {
		panic("chq: negative WaitGroup counter")
	}
	if v == 0 {
		wg.epoch.Add(1)
		if wg.waiters.Load() > 0 {
			park.Default().Wake(&wg.epoch, park.All)
		}
	}
}

// Count returns the outstanding work count.
func (wg *WaitGroup) Count() int {
	return int(wg.count.Load())
}

// Wait returns once the count is zero.
func (wg *WaitGroup) Wait(ws WaitStrategy) {
	wg.wait(ws, time.Time{}, false)
}

// WaitTimed returns true once the count is zero, or false if deadline
// passes first.
func (wg *WaitGroup) WaitTimed(deadline time.Time, ws WaitStrategy) bool {
	return wg.wait(ws, deadline, true)
}

func (wg *WaitGroup) wait(ws WaitStrategy, deadline time.Time, timed bool) bool {
	w := waitState{ws: ws}
	for {
		if wg.count.Load() == 0 {
			return true
		}
		timeout := park.Forever
		if timed {
			timeout = time.Until(deadline)
			if timeout <= 0 {
				return false
			}
		}
		if w.pause() {
			continue
		}
		wg.waiters.Add(1)
		e := wg.epoch.Load()
		if wg.count.Load() != 0 {
			_ = park.Default().Wait(&wg.epoch, e, timeout)
		}
		wg.waiters.Add(-1)
	}
}
