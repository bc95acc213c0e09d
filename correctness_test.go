// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/chq"
	"code.hybscloud.com/iox"
)

// =============================================================================
// Test Helpers
// =============================================================================

// channelConfig builds channels for one strategy/parker combination.
type channelConfig struct {
	name  string
	ws    chq.WaitStrategy
	build func(n int) *chq.Channel[int]
}

func channelConfigs() []channelConfig {
	var cs []channelConfig
	for _, ws := range []chq.WaitStrategy{chq.Spin, chq.Yield, chq.Block} {
		cs = append(cs,
			channelConfig{
				name:  ws.String() + "/futex",
				ws:    ws,
				build: func(n int) *chq.Channel[int] { return chq.Build[int](chq.New(n).Strategy(ws).Futex()) },
			},
			channelConfig{
				name:  ws.String() + "/lot",
				ws:    ws,
				build: func(n int) *chq.Channel[int] { return chq.Build[int](chq.New(n).Strategy(ws).Lot()) },
			},
		)
	}
	return cs
}

// opFamily pushes and pops through one operation family, retrying
// transient errors. Both return ErrClosed when the channel is closed.
type opFamily struct {
	name string
	push func(c *chq.Channel[int], ws chq.WaitStrategy, v int) error
	pop  func(c *chq.Channel[int], ws chq.WaitStrategy) (int, error)
}

var opFamilies = []opFamily{
	{
		name: "blocking",
		push: func(c *chq.Channel[int], ws chq.WaitStrategy, v int) error { return c.Push(&v, ws) },
		pop:  func(c *chq.Channel[int], ws chq.WaitStrategy) (int, error) { return c.Pop(ws) },
	},
	{
		name: "try",
		push: func(c *chq.Channel[int], _ chq.WaitStrategy, v int) error {
			backoff := iox.Backoff{}
			for {
				err := c.TryPush(&v)
				if !chq.IsTransient(err) {
					return err
				}
				backoff.Wait()
			}
		},
		pop: func(c *chq.Channel[int], _ chq.WaitStrategy) (int, error) {
			backoff := iox.Backoff{}
			for {
				v, err := c.TryPop()
				if !chq.IsTransient(err) {
					return v, err
				}
				backoff.Wait()
			}
		},
	},
	{
		name: "timed",
		push: func(c *chq.Channel[int], _ chq.WaitStrategy, v int) error {
			for {
				err := c.TimedPush(&v, time.Now().Add(5*time.Millisecond))
				if !errors.Is(err, chq.ErrTimeout) {
					return err
				}
			}
		},
		pop: func(c *chq.Channel[int], _ chq.WaitStrategy) (int, error) {
			for {
				v, err := c.TimedPop(time.Now().Add(5 * time.Millisecond))
				if !errors.Is(err, chq.ErrTimeout) {
					return v, err
				}
			}
		},
	},
}

// =============================================================================
// Linearizability
// =============================================================================

// runExchange drives numP producers and numC consumers through c and
// verifies exactly-once delivery and per-producer order.
// Values are encoded as producerID*100000 + sequence.
func runExchange(t *testing.T, c *chq.Channel[int], ws chq.WaitStrategy, ops opFamily, numP, numC, items int) {
	t.Helper()
	expected := numP * items
	seen := make([]atomix.Int32, expected)
	var stopSampler atomix.Bool
	var samplerWg sync.WaitGroup

	// Count stays within [0, Cap] throughout.
	samplerWg.Add(1)
	go func() {
		defer samplerWg.Done()
		for !stopSampler.Load() {
			if n := c.Count(); n < 0 || n > c.Cap() {
				t.Errorf("Count: got %d, out of [0, %d]", n, c.Cap())
				return
			}
			time.Sleep(50 * time.Microsecond)
		}
	}()

	var producers sync.WaitGroup
	for p := range numP {
		producers.Add(1)
		go func(id int) {
			defer producers.Done()
			for i := range items {
				if err := ops.push(c, ws, id*100000+i); err != nil {
					t.Errorf("producer %d: push(%d): %v", id, i, err)
					return
				}
			}
		}(p)
	}

	var consumers sync.WaitGroup
	for range numC {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			last := make([]int, numP)
			for i := range last {
				last[i] = -1
			}
			for {
				v, err := ops.pop(c, ws)
				if errors.Is(err, chq.ErrClosed) {
					return
				}
				if err != nil {
					t.Errorf("pop: %v", err)
					return
				}
				id, seq := v/100000, v%100000
				if id < 0 || id >= numP || seq >= items {
					t.Errorf("value out of range: %d", v)
					continue
				}
				if seq <= last[id] {
					t.Errorf("producer %d: seq %d after %d", id, seq, last[id])
				}
				last[id] = seq
				seen[id*items+seq].Add(1)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		producers.Wait()
		c.CloseSoft()
		consumers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("exchange did not finish")
	}
	stopSampler.Store(true)
	samplerWg.Wait()

	var missing, duplicates int
	for i := range expected {
		switch n := seen[i].Load(); {
		case n == 0:
			missing++
		case n > 1:
			duplicates++
		}
	}
	if missing != 0 || duplicates != 0 {
		t.Fatalf("missing %d, duplicates %d of %d", missing, duplicates, expected)
	}
	if !c.IsConvergedState() {
		t.Fatal("IsConvergedState after exchange: got false")
	}
}

// TestLinearizability runs every operation family over every strategy and
// parker, on power-of-2 and other capacities.
func TestLinearizability(t *testing.T) {
	if chq.RaceEnabled {
		t.Skip("skip: linearizability test requires concurrent access")
	}
	items := 1000
	if testing.Short() {
		items = 200
	}
	for _, cfg := range channelConfigs() {
		for _, ops := range opFamilies {
			for _, capacity := range []int{1, 7, 64} {
				name := fmt.Sprintf("%s/%s/cap%d", cfg.name, ops.name, capacity)
				t.Run(name, func(t *testing.T) {
					runExchange(t, cfg.build(capacity), cfg.ws, ops, 4, 4, items)
				})
			}
		}
	}
}

// TestMixedFamilies runs producers and consumers that each use a
// different operation family on the same channel.
func TestMixedFamilies(t *testing.T) {
	if chq.RaceEnabled {
		t.Skip("skip: linearizability test requires concurrent access")
	}
	mixed := opFamily{
		name: "mixed",
		push: func(c *chq.Channel[int], ws chq.WaitStrategy, v int) error {
			return opFamilies[v%len(opFamilies)].push(c, ws, v)
		},
		pop: func(c *chq.Channel[int], ws chq.WaitStrategy) (int, error) {
			return opFamilies[int(time.Now().UnixNano())%len(opFamilies)].pop(c, ws)
		},
	}
	runExchange(t, chq.NewChannel[int](5), chq.Block, mixed, 6, 3, 1000)
}

// TestReopenCycles checks that each generation delivers exactly once.
func TestReopenCycles(t *testing.T) {
	if chq.RaceEnabled {
		t.Skip("skip: linearizability test requires concurrent access")
	}
	c := chq.NewChannel[int](8)
	for gen := range 5 {
		runExchange(t, c, chq.Block, opFamilies[0], 3, 3, 300)
		if !c.Reopen() {
			t.Fatalf("gen %d: Reopen: got false", gen)
		}
		if c.Count() != 0 {
			t.Fatalf("gen %d: Count after drain: got %d", gen, c.Count())
		}
	}
}
