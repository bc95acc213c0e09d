// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq

import (
	"runtime"

	"code.hybscloud.com/spin"
)

// WaitStrategy selects how a suspending operation waits.
type WaitStrategy uint8

const (
	// Spin busy-waits with a CPU pause hint and never parks. It yields
	// the processor every spinYieldEvery rounds so a counterparty sharing
	// the P can run.
	Spin WaitStrategy = iota
	// Yield gives up the processor a bounded number of times, then parks.
	Yield
	// Block spins briefly, then parks on the slot.
	Block
)

func (ws WaitStrategy) String() string {
	switch ws {
	case Spin:
		return "spin"
	case Yield:
		return "yield"
	case Block:
		return "block"
	}
	return "invalid"
}

const (
	blockSpins     = 32  // Block: pause rounds before parking
	yieldRounds    = 16  // Yield: scheduler yields before parking
	spinYieldEvery = 128 // Spin: pause rounds between yields
)

// waitState carries one caller's progress through its wait strategy.
type waitState struct {
	ws     WaitStrategy
	rounds int
	sw     spin.Wait
}

// pause performs one wait step that does not park.
// Returns false when the strategy calls for parking instead.
func (w *waitState) pause() bool {
	switch w.ws {
	case Spin:
		w.rounds++
		if w.rounds%spinYieldEvery == 0 {
			runtime.Gosched()
		} else {
			w.sw.Once()
		}
		return true
	case Yield:
		if w.rounds < yieldRounds {
			w.rounds++
			runtime.Gosched()
			return true
		}
	default:
		if w.rounds < blockSpins {
			w.rounds++
			w.sw.Once()
			return true
		}
	}
	return false
}
