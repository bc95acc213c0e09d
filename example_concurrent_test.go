// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// This file contains examples with concurrent producer/consumer goroutines.
// These trigger false positives with Go's race detector because slot values
// are guarded by atomic sequence words that the detector cannot see.
// The examples are correct; they're excluded from race testing.

package chq_test

import (
	"fmt"
	"slices"
	"sync"

	"code.hybscloud.com/chq"
)

// Example_workerPool demonstrates workers draining a job channel until a
// soft close.
func Example_workerPool() {
	type Job struct {
		ID    int
		Input int
	}

	jobs := chq.NewChannel[Job](4)
	results := make([]int, 8)
	var wg sync.WaitGroup

	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job, err := jobs.Pop(chq.Block)
				if err != nil {
					return
				}
				results[job.ID] = job.Input * job.Input
			}
		}()
	}

	for i := range 8 {
		jobs.Push(&Job{ID: i, Input: i + 1}, chq.Block)
	}
	jobs.CloseSoft()
	wg.Wait()

	fmt.Println(results)

	// Output:
	// [1 4 9 16 25 36 49 64]
}

// ExampleWaitGroup demonstrates waiting for outstanding work.
func ExampleWaitGroup() {
	var pending chq.WaitGroup
	work := chq.NewChannel[int](16)
	var mu sync.Mutex
	var done []int

	pending.Push(5)
	for range 2 {
		go func() {
			for {
				v, err := work.Pop(chq.Block)
				if err != nil {
					return
				}
				mu.Lock()
				done = append(done, v)
				mu.Unlock()
				pending.Pop(1)
			}
		}()
	}
	for i := range 5 {
		work.Push(&i, chq.Block)
	}

	pending.Wait(chq.Block)
	work.CloseHard()

	mu.Lock()
	slices.Sort(done)
	fmt.Println(done)
	mu.Unlock()

	// Output:
	// [0 1 2 3 4]
}
