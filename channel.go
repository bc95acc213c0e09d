// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq

import (
	"sync/atomic"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/chq/internal/park"
	"code.hybscloud.com/spin"
)

// Channel is a bounded multi-producer multi-consumer ticket channel.
//
// Producers draw tickets from head and consumers from tail; ticket t maps
// to slot t mod N. Values leave in ticket order, so the channel is FIFO
// with respect to the order in which producers claimed tickets.
//
// Push and Pop claim a ticket with one fetch-and-add and then wait on
// their slot, so every blocked caller sleeps on a different word.
// TryPush/TryPop and the timed variants claim a ticket by CAS only when
// the slot is ready, so they never leave a ticket behind when they fail.
//
// Memory: N slots (64+ bytes per slot)
type Channel[T any] struct {
	_        pad
	head     atomix.Uint64 // Producer tickets
	_        pad
	tail     atomix.Uint64 // Consumer tickets
	_        pad
	state    atomix.Uint64 // stateWord
	_        pad
	slots    []slot[T]
	capacity uint64
	mask     uint64
	pow2     bool
	strategy WaitStrategy
	parker   park.Parker
}

type slot[T any] struct {
	seq     atomix.Uint64
	epoch   atomic.Uint32 // Park word, bumped after every seq change
	waiters atomic.Int32
	val     T
	_       padSlot
}

// padSlot fills the cache line after the slot's control words.
type padSlot [64 - 16]byte

// maxTryRounds bounds consecutive CAS losses in TryPush/TryPop.
const maxTryRounds = 64

// timedParkSlice caps a single park inside TimedPush/TimedPop. A timed
// caller parks on the slot of a ticket it has not claimed, and the slot
// can change hands without its epoch moving for that caller.
const timedParkSlice = 2 * time.Millisecond

func newChannel[T any](capacity int, ws WaitStrategy, p park.Parker) *Channel[T] {
	if capacity < 1 {
		panic("chq: capacity must be >= 1")
	}
	n := uint64(capacity)
	c := &Channel[T]{
		slots:    make([]slot[T], n),
		capacity: n,
		strategy: ws,
		parker:   p,
	}
	if isPow2(n) {
		c.pow2 = true
		c.mask = n - 1
	}
	for i := uint64(0); i < n; i++ {
		c.slots[i].seq.StoreRelaxed(emptyFor(i))
	}
	return c
}

// Push publishes a copy of *elem, waiting with ws for a free slot.
//
// Returns ErrClosed if the channel is closed on entry, if it is
// push-closed or hard-closed while the call waits for its slot, or if it
// is hard-closed before the value is published.
func (c *Channel[T]) Push(elem *T, ws WaitStrategy) error {
	if !c.enterProducer() {
		return ErrClosed
	}
	err := c.push(elem, ws)
	c.exitProducer()
	return err
}

func (c *Channel[T]) push(elem *T, ws WaitStrategy) error {
	t := c.head.AddAcqRel(1) - 1
	s := c.slotOf(t)
	w := waitState{ws: ws}
	for {
		seq := s.seq.LoadAcquire()
		if seq == emptyFor(t) {
			c.publish(s, t, elem)
			return nil
		}
		if ticketLess(emptyFor(t), seq) {
			return ErrLost
		}
		st := c.loadState()
		if st.mode() >= PushClosed {
			// Ticket t stays unfilled; consumers skip it once the
			// last producer leaves.
			return ErrClosed
		}
		c.wait(&w, s, seq, st.key(), park.Forever)
	}
}

// Pop takes the value at the next consumer ticket, waiting with ws until
// it is published.
//
// Returns ErrClosed when the channel is hard-closed, or when it is closed
// and no value will ever arrive for the claimed ticket.
func (c *Channel[T]) Pop(ws WaitStrategy) (T, error) {
	if !c.enterConsumer() {
		var zero T
		return zero, ErrClosed
	}
	elem, err := c.pop(ws)
	c.exitConsumer()
	return elem, err
}

func (c *Channel[T]) pop(ws WaitStrategy) (T, error) {
	var zero T
	w := waitState{ws: ws}
	for {
		t := c.tail.AddAcqRel(1) - 1
		s := c.slotOf(t)
		skipped := false
		for !skipped {
			seq := s.seq.LoadAcquire()
			if seq == fullFor(t) {
				return c.take(s, t), nil
			}
			if ticketLess(fullFor(t), seq) {
				return zero, ErrLost
			}
			st := c.loadState()
			switch c.resolve(st, s, t) {
			case verdictClosed:
				return zero, ErrClosed
			case verdictHole:
				c.release(s, t)
				skipped = true
			default:
				c.wait(&w, s, seq, st.key(), park.Forever)
			}
		}
	}
}

// TryPush publishes a copy of *elem only if the slot at head is free.
//
// Returns ErrFull if the slot still holds a value from the previous lap,
// ErrClosed if the channel is closed, or ErrLost if other producers won
// the slot maxTryRounds times in a row.
func (c *Channel[T]) TryPush(elem *T) error {
	if !c.enterProducer() {
		return ErrClosed
	}
	err := c.tryPush(elem)
	c.exitProducer()
	return err
}

func (c *Channel[T]) tryPush(elem *T) error {
	sw := spin.Wait{}
	for range maxTryRounds {
		h := c.head.LoadAcquire()
		s := c.slotOf(h)
		seq := s.seq.LoadAcquire()
		if seq == emptyFor(h) {
			if c.head.CompareAndSwapAcqRel(h, h+1) {
				c.publish(s, h, elem)
				return nil
			}
		} else if ticketLess(seq, emptyFor(h)) {
			return ErrFull
		}
		sw.Once()
	}
	return ErrLost
}

// TryPop takes the value at tail only if it is already published.
//
// Returns ErrEmpty if nothing is published at tail, ErrClosed if the
// channel is closed and drained, or ErrLost if other consumers won the
// slot maxTryRounds times in a row.
func (c *Channel[T]) TryPop() (T, error) {
	if !c.enterConsumer() {
		var zero T
		return zero, ErrClosed
	}
	elem, err := c.tryPop()
	c.exitConsumer()
	return elem, err
}

func (c *Channel[T]) tryPop() (T, error) {
	var zero T
	sw := spin.Wait{}
	for lost := 0; lost < maxTryRounds; {
		t := c.tail.LoadAcquire()
		s := c.slotOf(t)
		seq := s.seq.LoadAcquire()
		switch {
		case seq == fullFor(t):
			if c.tail.CompareAndSwapAcqRel(t, t+1) {
				return c.take(s, t), nil
			}
		case ticketLess(seq, fullFor(t)):
			switch c.resolve(c.loadState(), s, t) {
			case verdictClosed:
				return zero, ErrClosed
			case verdictHole:
				if c.tail.CompareAndSwapAcqRel(t, t+1) {
					c.release(s, t)
				}
				continue
			case verdictPending:
				if s.seq.LoadAcquire() == seq {
					return zero, ErrEmpty
				}
				continue
			}
		}
		lost++
		sw.Once()
	}
	return zero, ErrLost
}

// TimedPush is TryPush retried with the channel's wait strategy until
// deadline. Returns ErrTimeout once the deadline passes, or ErrClosed as
// soon as the channel leaves Open.
func (c *Channel[T]) TimedPush(elem *T, deadline time.Time) error {
	if !c.enterProducer() {
		return ErrClosed
	}
	err := c.timedPush(elem, deadline)
	c.exitProducer()
	return err
}

func (c *Channel[T]) timedPush(elem *T, deadline time.Time) error {
	w := waitState{ws: c.strategy}
	for {
		st := c.loadState()
		if st.mode() != Open {
			return ErrClosed
		}
		h := c.head.LoadAcquire()
		s := c.slotOf(h)
		seq := s.seq.LoadAcquire()
		if seq == emptyFor(h) {
			if c.head.CompareAndSwapAcqRel(h, h+1) {
				c.publish(s, h, elem)
				return nil
			}
			w.sw.Once()
			continue
		}
		if !ticketLess(seq, emptyFor(h)) {
			// Stale head.
			w.sw.Once()
			continue
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrTimeout
		}
		c.wait(&w, s, seq, st.key(), min(remaining, timedParkSlice))
	}
}

// TimedPop is TryPop retried with the channel's wait strategy until
// deadline. Returns ErrTimeout once the deadline passes, or ErrClosed
// under the same conditions as Pop.
func (c *Channel[T]) TimedPop(deadline time.Time) (T, error) {
	if !c.enterConsumer() {
		var zero T
		return zero, ErrClosed
	}
	elem, err := c.timedPop(deadline)
	c.exitConsumer()
	return elem, err
}

func (c *Channel[T]) timedPop(deadline time.Time) (T, error) {
	var zero T
	w := waitState{ws: c.strategy}
	for {
		t := c.tail.LoadAcquire()
		s := c.slotOf(t)
		seq := s.seq.LoadAcquire()
		if seq == fullFor(t) {
			if c.tail.CompareAndSwapAcqRel(t, t+1) {
				return c.take(s, t), nil
			}
			w.sw.Once()
			continue
		}
		if !ticketLess(seq, fullFor(t)) {
			// Stale tail.
			w.sw.Once()
			continue
		}
		st := c.loadState()
		switch c.resolve(st, s, t) {
		case verdictClosed:
			return zero, ErrClosed
		case verdictHole:
			if c.tail.CompareAndSwapAcqRel(t, t+1) {
				c.release(s, t)
			}
			continue
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return zero, ErrTimeout
		}
		c.wait(&w, s, seq, st.key(), min(remaining, timedParkSlice))
	}
}

// publish fills slot s for ticket t. The caller owns ticket t.
func (c *Channel[T]) publish(s *slot[T], t uint64, elem *T) {
	s.val = *elem
	s.seq.StoreRelease(fullFor(t))
	c.notify(s)
}

// take drains slot s for consumer ticket t and hands it to ticket t+N.
func (c *Channel[T]) take(s *slot[T], t uint64) T {
	elem := s.val
	var zero T
	s.val = zero
	c.release(s, t)
	return elem
}

// release hands slot s from consumer ticket t to producer ticket t+N.
func (c *Channel[T]) release(s *slot[T], t uint64) {
	s.seq.StoreRelease(emptyFor(t + c.capacity))
	c.notify(s)
}

type verdict uint8

const (
	verdictPending verdict = iota // keep waiting
	verdictClosed                 // no value will arrive
	verdictHole                   // producer abandoned the ticket
)

// resolve decides consumer ticket t whose value is not yet published,
// given state st loaded after the caller's last look at the slot.
//
// Once the channel is closed and no producer is inside, head is final:
// tickets at or past head will never be filled, and an empty slot below
// head belongs to a producer that gave up.
func (c *Channel[T]) resolve(st stateWord, s *slot[T], t uint64) verdict {
	switch st.mode() {
	case Open:
		return verdictPending
	case HardClosed:
		return verdictClosed
	}
	if st.producers() != 0 {
		return verdictPending
	}
	if !ticketLess(t, c.head.LoadAcquire()) {
		return verdictClosed
	}
	// Reload: the last producer may have published t before leaving.
	if s.seq.LoadAcquire() == emptyFor(t) {
		return verdictHole
	}
	return verdictPending
}

// wait performs one wait step for a caller that saw seq on slot s and
// state key key. Parks only while both are unchanged. A negative
// timeout parks without limit.
func (c *Channel[T]) wait(w *waitState, s *slot[T], seq, key uint64, timeout time.Duration) {
	if w.pause() {
		return
	}
	s.waiters.Add(1)
	e := s.epoch.Load()
	if s.seq.LoadAcquire() == seq && c.loadState().key() == key {
		_ = c.parker.Wait(&s.epoch, e, timeout)
	}
	s.waiters.Add(-1)
}

// notify wakes every caller parked on slot s.
func (c *Channel[T]) notify(s *slot[T]) {
	s.epoch.Add(1)
	if s.waiters.Load() > 0 {
		c.parker.Wake(&s.epoch, park.All)
	}
}

// wakeAll wakes every parked caller so each re-reads the state word.
func (c *Channel[T]) wakeAll() {
	for i := range c.slots {
		c.notify(&c.slots[i])
	}
}

// enterProducer registers a producer. Returns false unless the channel
// is Open.
func (c *Channel[T]) enterProducer() bool {
	sw := spin.Wait{}
	for {
		st := c.loadState()
		if st.mode() != Open {
			return false
		}
		if st.producers() == countMax {
			panic("chq: too many concurrent producers")
		}
		if c.casState(st, st+producerOne) {
			return true
		}
		sw.Once()
	}
}

// exitProducer deregisters a producer. The last producer to leave a
// closed channel wakes consumers so they can resolve unfilled tickets.
func (c *Channel[T]) exitProducer() {
	st := stateWord(c.state.AddAcqRel(^uint64(producerOne - 1)))
	if st.mode() != Open && st.producers() == 0 {
		c.wakeAll()
	}
}

// enterConsumer registers a consumer. Returns false if the channel is
// hard-closed. Waits out a Reopen in progress.
func (c *Channel[T]) enterConsumer() bool {
	sw := spin.Wait{}
	for {
		st := c.loadState()
		switch {
		case st.busy():
		case st.mode() == HardClosed:
			return false
		case st.consumers() == countMax:
			panic("chq: too many concurrent consumers")
		default:
			if c.casState(st, st+consumerOne) {
				return true
			}
		}
		sw.Once()
	}
}

func (c *Channel[T]) exitConsumer() {
	c.state.AddAcqRel(^uint64(consumerOne - 1))
}

// Count returns the number of buffered values, clamped to [0, Cap].
// Advisory under concurrency; 0 once hard-closed.
func (c *Channel[T]) Count() int {
	if c.loadState().mode() == HardClosed {
		return 0
	}
	t := c.tail.LoadAcquire()
	h := c.head.LoadAcquire()
	if !ticketLess(t, h) {
		return 0
	}
	return int(min(h-t, c.capacity))
}

// Cap returns the channel capacity.
func (c *Channel[T]) Cap() int {
	return int(c.capacity)
}

// IsClosed reports whether the channel is in any closed mode.
func (c *Channel[T]) IsClosed() bool {
	return c.loadState().mode() != Open
}

// Mode returns the current close mode.
func (c *Channel[T]) Mode() Mode {
	return c.loadState().mode()
}

// Generation counts completed Reopen calls.
func (c *Channel[T]) Generation() uint64 {
	return c.loadState().generation()
}
