// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package park provides park-on-address primitives for blocking waits.
//
// A waiter parks on a 32-bit word only if the word still holds the value
// it last observed; a waker changes the word first and then wakes. The
// check-and-sleep is atomic with respect to wakes on the same address, so
// a store followed by [Parker.Wake] can never be missed.
//
// Two implementations are available:
//
//   - [Futex]: the Linux futex(2) syscall on the word itself (private
//     futex operations). On other platforms Futex returns the lot.
//   - [Lot]: a portable address-keyed parking lot. Waiting goroutines
//     block on channels, so no OS thread is held while parked.
//
// [Default] selects the futex on Linux and a process-wide lot elsewhere.
package park
