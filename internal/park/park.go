// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package park

import (
	"errors"
	"sync/atomic"
	"time"
)

// All passed to Wake releases every waiter parked on the address.
const All = 0

// Forever passed to Wait parks without a timeout.
const Forever time.Duration = -1

// ErrTimeout is returned by Wait when the timeout expires before a wake.
var ErrTimeout = errors.New("park: timeout")

// Parker parks and wakes goroutines on the address of a 32-bit word.
type Parker interface {
	// Wait parks the caller while *addr == expected.
	//
	// Returns nil when woken, when *addr no longer equals expected, or on a
	// spurious wakeup. Callers must re-check their condition in a loop.
	// Returns ErrTimeout if timeout (>= 0) elapses first. A negative
	// timeout waits indefinitely.
	Wait(addr *atomic.Uint32, expected uint32, timeout time.Duration) error

	// Wake releases up to n waiters parked on addr; n <= 0 releases all.
	// Returns the number of waiters released.
	Wake(addr *atomic.Uint32, n int) int
}

// Default returns the platform's preferred Parker.
func Default() Parker {
	return defaultParker
}
