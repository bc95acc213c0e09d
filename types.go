// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq

import "time"

// Chan is the combined producer-consumer interface of a ticket channel.
//
// Example:
//
//	var c chq.Chan[int] = chq.NewChannel[int](1024)
//
//	v := 42
//	if err := c.Push(&v, chq.Block); err != nil {
//	    // ErrClosed
//	}
//
//	elem, err := c.Pop(chq.Block)
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Chan[T any] interface {
	Sender[T]
	Receiver[T]
	Closer
	Cap() int
	Count() int
}

// Sender is the producer side of a channel.
//
// The element is passed by pointer to avoid copying large structs. The
// channel stores a copy of the pointed-to value, so the original can be
// modified after the call returns.
type Sender[T any] interface {
	// Push claims the next producer ticket and waits with ws until the
	// slot for that ticket is free, then publishes the element.
	// Returns nil or ErrClosed.
	Push(elem *T, ws WaitStrategy) error

	// TryPush publishes the element only if the next slot is free now.
	// Returns nil, ErrFull, ErrClosed or ErrLost. Never waits.
	TryPush(elem *T) error

	// TimedPush is TryPush retried until deadline.
	// Returns nil, ErrTimeout or ErrClosed.
	TimedPush(elem *T, deadline time.Time) error
}

// Receiver is the consumer side of a channel.
//
// The element is returned by value and the slot is cleared to allow
// garbage collection of referenced objects.
type Receiver[T any] interface {
	// Pop claims the next consumer ticket and waits with ws until the
	// value for that ticket is published.
	// Returns the element and nil, or the zero value and ErrClosed.
	Pop(ws WaitStrategy) (T, error)

	// TryPop takes the next value only if it is already published.
	// Returns ErrEmpty, ErrClosed or ErrLost on failure. Never waits.
	TryPop() (T, error)

	// TimedPop is TryPop retried until deadline.
	// Returns ErrTimeout or ErrClosed on failure.
	TimedPop(deadline time.Time) (T, error)
}

// Closer drives the close/reopen lifecycle.
type Closer interface {
	// CloseSoft rejects new producers; claimed pushes complete and
	// consumers drain buffered values before seeing ErrClosed.
	CloseSoft() bool

	// ClosePush is CloseSoft that also makes producers still waiting for
	// a slot give up with ErrClosed.
	ClosePush() bool

	// CloseHard makes every current and future call return ErrClosed.
	CloseHard() bool

	// Reopen returns a closed channel with no callers inside to Open.
	Reopen() bool

	// IsClosed reports whether the channel is in any closed mode.
	IsClosed() bool
}

var _ Chan[int] = (*Channel[int])(nil)
