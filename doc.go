// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package chq provides a bounded multi-producer multi-consumer ticket
// channel with close modes, reopen and per-slot parking.
//
// Producers and consumers draw monotonically increasing tickets; ticket t
// maps to slot t mod N. Each slot carries a sequence word that says whose
// turn it is, so a caller waits on its own slot instead of on a shared
// lock or condition.
//
// # Quick Start
//
//	c := chq.NewChannel[Job](4096)
//
//	// Producer
//	j := Job{ID: 1}
//	if err := c.Push(&j, chq.Block); err != nil {
//	    // chq.ErrClosed
//	}
//
//	// Consumer
//	for {
//	    j, err := c.Pop(chq.Block)
//	    if err != nil {
//	        break // closed and drained
//	    }
//	    j.Run()
//	}
//
// Builder API:
//
//	c := chq.Build[Job](chq.New(1000).Strategy(chq.Yield).Lot())
//
// # Operation Families
//
// Every operation comes in three flavors:
//
//	Push / Pop              claim a ticket, wait as long as needed
//	TryPush / TryPop        never wait: ErrFull, ErrEmpty or ErrLost
//	TimedPush / TimedPop    wait until a deadline: ErrTimeout
//
// Push and Pop take a [WaitStrategy] per call; the timed variants use the
// strategy the channel was built with.
//
//	Spin   busy-wait with a CPU pause hint, never park
//	Yield  yield the processor a few times, then park
//	Block  pause briefly, then park
//
// # Close Modes
//
//	CloseSoft  no new producers; buffered and in-flight values drain
//	ClosePush  as CloseSoft, and producers waiting for a slot give up
//	CloseHard  everything returns ErrClosed at once
//
// Modes only escalate: Open → SoftClosed → PushClosed → HardClosed.
// [Channel.Reopen] returns to Open once no call is inside and bumps the
// generation. After a soft or push close the undelivered values survive
// Reopen in order; after a hard close the ring starts empty.
//
// Graceful shutdown:
//
//	c.CloseSoft()
//	for {
//	    v, err := c.Pop(chq.Block)
//	    if chq.IsClosed(err) {
//	        break
//	    }
//	    handle(v)
//	}
//
// # Error Handling
//
// [ErrFull] and [ErrEmpty] wrap [ErrWouldBlock], which is sourced from
// [code.hybscloud.com/iox] for ecosystem consistency:
//
//	chq.IsWouldBlock(err)  // ErrFull or ErrEmpty
//	chq.IsTransient(err)   // also ErrLost or ErrTimeout
//	chq.IsClosed(err)      // ErrClosed
//
// # Waiting for Work
//
// [WaitGroup] counts outstanding work with the same wait strategies:
//
//	var wg chq.WaitGroup
//	wg.Push(len(jobs))
//	// each worker: wg.Pop(1)
//	if !wg.WaitTimed(time.Now().Add(time.Second), chq.Block) {
//	    // timed out
//	}
//
// # Race Detection
//
// Slot values are plain fields guarded by the acquire-release ordering of
// the slot sequence word. The race detector cannot see that ordering and
// may report false positives; concurrent tests check [RaceEnabled] and
// skip.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions,
// and golang.org/x/sys/unix for futex parking on Linux.
package chq
