// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package park

var defaultParker Parker = sharedLot

// Futex returns the process-wide Lot on platforms without futex(2).
func Futex() Parker {
	return sharedLot
}
