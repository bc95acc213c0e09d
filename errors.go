// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// ErrWouldBlock is a control flow signal, not a failure. [ErrFull] and
// [ErrEmpty] wrap it, so callers that only care about backpressure can
// test a single error:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := ch.TryPush(&item)
//	    if err == nil {
//	        break
//	    }
//	    if chq.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    return err // ErrClosed or ErrLost
//	}
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

var (
	// ErrFull is returned by TryPush when every slot holds an unconsumed value.
	ErrFull = fmt.Errorf("chq: channel full: %w", ErrWouldBlock)

	// ErrEmpty is returned by TryPop when no value is published at the
	// next consumer ticket.
	ErrEmpty = fmt.Errorf("chq: channel empty: %w", ErrWouldBlock)

	// ErrClosed is terminal for the call: the channel will not accept the
	// operation until Reopen.
	ErrClosed = errors.New("chq: channel closed")

	// ErrLost reports that other callers kept moving the ticket counter
	// past the ticket this call was about to resolve. Nothing was
	// published or consumed; the caller may retry.
	ErrLost = errors.New("chq: ticket lost")

	// ErrTimeout is returned by the timed variants when the deadline
	// passes. The channel state is unchanged.
	ErrTimeout = errors.New("chq: deadline exceeded")
)

// IsWouldBlock reports whether err indicates the operation would block.
// True for ErrFull and ErrEmpty. Delegates to [iox.IsWouldBlock].
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

// IsClosed reports whether err is the terminal ErrClosed.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsTransient reports whether err may clear on retry without a Reopen:
// ErrFull, ErrEmpty, ErrLost or ErrTimeout.
func IsTransient(err error) bool {
	return errors.Is(err, ErrWouldBlock) ||
		errors.Is(err, ErrLost) ||
		errors.Is(err, ErrTimeout)
}
