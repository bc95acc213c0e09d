// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package park

import (
	"math"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	futexWait        = 0
	futexWake        = 1
	futexPrivateFlag = 128

	futexWaitPrivate = futexWait | futexPrivateFlag
	futexWakePrivate = futexWake | futexPrivateFlag
)

var defaultParker Parker = futex{}

// futex parks on the word with futex(2). The kernel compares the word
// with the expected value under its hash-bucket lock before sleeping.
type futex struct{}

// Futex returns the futex(2) based Parker.
func Futex() Parker {
	return futex{}
}

func (futex) Wait(addr *atomic.Uint32, expected uint32, timeout time.Duration) error {
	var ts *unix.Timespec
	if timeout >= 0 {
		t := unix.NsecToTimespec(int64(timeout))
		ts = &t
	}
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWaitPrivate,
		uintptr(expected),
		uintptr(unsafe.Pointer(ts)),
		0,
		0)
	switch errno {
	case 0, unix.EAGAIN, unix.EINTR:
		return nil
	case unix.ETIMEDOUT:
		return ErrTimeout
	default:
		return errno
	}
}

func (futex) Wake(addr *atomic.Uint32, n int) int {
	if n <= 0 {
		n = math.MaxInt32
	}
	r, _, errno := unix.Syscall(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWakePrivate,
		uintptr(n))
	if errno != 0 {
		return 0
	}
	return int(r)
}
