// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package chq

// RaceEnabled is true when the race detector is active.
// Tests use it to skip concurrent runs over generic slot values, which
// the detector reports as races because it cannot see the ordering the
// slot sequence word provides.
const RaceEnabled = true
