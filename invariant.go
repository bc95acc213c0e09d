// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq

// IsConvergedState reports whether the channel is quiescent and its
// slots are consistent.
//
// Quiescent means no call is inside and no Reopen is running. Consistent
// means every slot in the window of N tickets starting at min(head, tail)
// is either empty or full for its own lap. A hard-closed quiescent
// channel is always consistent: Reopen rebuilds it from scratch.
//
// Intended for tests and shutdown checks; the result is stale as soon as
// another goroutine touches the channel.
func (c *Channel[T]) IsConvergedState() bool {
	st := c.loadState()
	if st.busy() || !st.idle() {
		return false
	}
	if st.mode() == HardClosed {
		return true
	}
	h := c.head.LoadAcquire()
	t := c.tail.LoadAcquire()
	base := t
	if ticketLess(h, t) {
		base = h
	}
	for i := uint64(0); i < c.capacity; i++ {
		u := base + i
		seq := c.slotOf(u).seq.LoadAcquire()
		if seq != emptyFor(u) && seq != fullFor(u) {
			return false
		}
	}
	return true
}
