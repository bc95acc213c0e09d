// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq

// Mode is the close mode of a channel.
//
// Close modes form the lattice SoftClosed ⊑ PushClosed ⊑ HardClosed.
// A close call only moves the mode up; only Reopen returns to Open.
type Mode uint8

const (
	// Open accepts producers and consumers.
	Open Mode = iota
	// SoftClosed rejects new producers. Producers holding a ticket finish;
	// consumers drain buffered values.
	SoftClosed
	// PushClosed is SoftClosed where producers still waiting for a slot
	// give up.
	PushClosed
	// HardClosed rejects every call.
	HardClosed
)

func (m Mode) String() string {
	switch m {
	case Open:
		return "open"
	case SoftClosed:
		return "soft-closed"
	case PushClosed:
		return "push-closed"
	case HardClosed:
		return "hard-closed"
	}
	return "invalid"
}

// State word layout (64 bits):
//
//	bits  0-1   close mode
//	bit   2     busy: Reopen is rebuilding the ring
//	bits  3-22  producers inside Push/TryPush/TimedPush
//	bits 23-42  consumers inside Pop/TryPop/TimedPop
//	bits 43-63  generation, bumped by every Reopen
//
// Mode and the active counts share one word so that "still open" and
// "I am inside" are decided by the same CAS.
const (
	modeMask = 1<<2 - 1
	busyBit  = 1 << 2

	countBits     = 20
	countMax      = 1<<countBits - 1
	producerShift = 3
	consumerShift = producerShift + countBits
	genShift      = consumerShift + countBits

	producerOne = 1 << producerShift
	consumerOne = 1 << consumerShift
	genOne      = 1 << genShift

	// keyNoProducers marks a wait key taken while no producer was inside.
	keyNoProducers = 1 << 3
)

type stateWord uint64

func (s stateWord) mode() Mode {
	return Mode(s & modeMask)
}

func (s stateWord) busy() bool {
	return s&busyBit != 0
}

func (s stateWord) producers() uint64 {
	return uint64(s>>producerShift) & countMax
}

func (s stateWord) consumers() uint64 {
	return uint64(s>>consumerShift) & countMax
}

func (s stateWord) generation() uint64 {
	return uint64(s >> genShift)
}

// idle reports whether no caller is inside the channel.
func (s stateWord) idle() bool {
	return s.producers() == 0 && s.consumers() == 0
}

func (s stateWord) withMode(m Mode) stateWord {
	return s&^modeMask | stateWord(m)
}

// nextGeneration bumps the generation; it wraps off the top bits.
func (s stateWord) nextGeneration() stateWord {
	return s + genOne
}

// key condenses the parts of the state a parked caller must react to.
// Counter traffic that does not change the key does not wake waiters.
func (s stateWord) key() uint64 {
	k := uint64(s) & (modeMask | busyBit)
	if s.producers() == 0 {
		k |= keyNoProducers
	}
	return k
}

func (c *Channel[T]) loadState() stateWord {
	return stateWord(c.state.LoadAcquire())
}

func (c *Channel[T]) casState(old, next stateWord) bool {
	return c.state.CompareAndSwapAcqRel(uint64(old), uint64(next))
}
