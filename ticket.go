// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq

// Tickets are 64-bit counters compared cyclically. A producer ticket t
// owns slot t mod N on lap t / N. The slot sequence counts half steps:
//
//	seq == 2t       slot empty for the lap, producer t may fill it
//	seq == 2t + 1   slot full for the lap, consumer t may drain it
//	seq <  expected caller is early and waits
//	seq >  expected the ticket was already served
//
// A consumer releases the slot with seq = 2(t + N), which is the producer
// expectation for ticket t + N. Full for t and empty for t + N differ
// even when N == 1.

// ticketLess reports whether ticket a precedes ticket b.
// The counter does not wrap in practice; the order is defined even if it did.
func ticketLess(a, b uint64) bool {
	return int64(b-a) > 0
}

// emptyFor is the slot sequence at which producer ticket t may fill it.
func emptyFor(t uint64) uint64 {
	return t << 1
}

// fullFor is the slot sequence at which consumer ticket t may drain it.
func fullFor(t uint64) uint64 {
	return t<<1 | 1
}

// slotIndex maps a ticket to its slot.
func (c *Channel[T]) slotIndex(t uint64) uint64 {
	if c.pow2 {
		return t & c.mask
	}
	return t % c.capacity
}

func (c *Channel[T]) slotOf(t uint64) *slot[T] {
	return &c.slots[c.slotIndex(t)]
}
