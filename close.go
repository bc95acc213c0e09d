// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq

import "code.hybscloud.com/spin"

// CloseSoft moves an Open channel to SoftClosed.
//
// New producers get ErrClosed. Producers already holding a ticket
// publish once their slot frees up, and consumers drain every value
// before they see ErrClosed.
//
// Returns false if the channel was already closed in any mode.
func (c *Channel[T]) CloseSoft() bool {
	return c.close(SoftClosed)
}

// ClosePush moves the channel to PushClosed.
//
// Like CloseSoft, except producers still waiting for a free slot give up
// with ErrClosed. Their tickets are skipped by consumers.
//
// Returns false if the channel was already push-closed or hard-closed.
// Escalates a soft-closed channel.
func (c *Channel[T]) ClosePush() bool {
	return c.close(PushClosed)
}

// CloseHard moves the channel to HardClosed.
//
// Every waiting and future call returns ErrClosed. Buffered values are
// abandoned; Count reports 0.
//
// Returns false if the channel was already hard-closed.
func (c *Channel[T]) CloseHard() bool {
	return c.close(HardClosed)
}

// close raises the mode to m and wakes every parked caller.
func (c *Channel[T]) close(m Mode) bool {
	sw := spin.Wait{}
	for {
		st := c.loadState()
		if !st.busy() {
			if st.mode() >= m {
				return false
			}
			if c.casState(st, st.withMode(m)) {
				c.wakeAll()
				return true
			}
		}
		sw.Once()
	}
}

// Reopen returns a closed channel to Open and bumps its generation.
//
// Reopen succeeds only when no call is inside the channel. After a soft
// or push close the values still buffered are kept in order and skipped
// tickets are dropped. After a hard close the ring is emptied.
//
// Returns false if the channel is Open, a call is still inside, or
// another Reopen or Destroy is running.
func (c *Channel[T]) Reopen() bool {
	for {
		st := c.loadState()
		if st.mode() == Open || st.busy() || !st.idle() {
			return false
		}
		if c.casState(st, st|busyBit) {
			c.rebuild(st.mode() == HardClosed)
			c.state.StoreRelease(uint64(st.nextGeneration().withMode(Open)))
			return true
		}
	}
}

// Destroy hard-closes the channel and drops every buffered value so the
// referenced objects can be collected.
//
// Returns false if the values could not be dropped because a call is
// still inside; the channel is hard-closed either way. A destroyed
// channel can be reopened.
func (c *Channel[T]) Destroy() bool {
	c.CloseHard()
	st := c.loadState()
	if st.busy() || !st.idle() {
		return false
	}
	if !c.casState(st, st|busyBit) {
		return false
	}
	c.rebuild(true)
	c.state.StoreRelease(uint64(st))
	return true
}

// rebuild rewrites the ring while the busy bit keeps every caller out.
//
// A hard rebuild empties the ring at max(head, tail). Otherwise the
// values published in [tail, min(head, tail+N)) are compacted to the
// front in ticket order, discarding abandoned tickets, so head - tail
// equals the number of buffered values again.
func (c *Channel[T]) rebuild(hard bool) {
	h := c.head.LoadAcquire()
	t := c.tail.LoadAcquire()
	if hard || !ticketLess(t, h) {
		base := t
		if ticketLess(t, h) {
			base = h
		}
		c.reset(base, 0)
		return
	}
	end := h
	if ticketLess(t+c.capacity, h) {
		end = t + c.capacity
	}
	kept := uint64(0)
	for u := t; u != end; u++ {
		s := c.slotOf(u)
		if s.seq.LoadRelaxed() != fullFor(u) {
			continue
		}
		if dst := t + kept; dst != u {
			c.slotOf(dst).val = s.val
		}
		kept++
	}
	c.reset(t, kept)
}

// reset lays out the ring with tail at base and the first kept slots
// full.
func (c *Channel[T]) reset(base, kept uint64) {
	var zero T
	for i := uint64(0); i < c.capacity; i++ {
		u := base + i
		s := c.slotOf(u)
		if i < kept {
			s.seq.StoreRelaxed(fullFor(u))
			continue
		}
		s.val = zero
		s.seq.StoreRelaxed(emptyFor(u))
	}
	c.tail.StoreRelaxed(base)
	c.head.StoreRelaxed(base + kept)
}
