// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rowsync

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

const window = 100 * time.Millisecond

func TestAggregatorSingleSignal(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var fired atomic.Int32
	agg := newAggregator(clock, window, func() { fired.Add(1) })
	defer agg.Close()

	agg.Signal()
	clock.Advance(window)
	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, time.Millisecond)
}

func TestAggregatorCollapsesBurst(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var fired atomic.Int32
	agg := newAggregator(clock, window, func() { fired.Add(1) })
	defer agg.Close()

	// Five signals, each within the quiescence window of the last.
	for i := 0; i < 5; i++ {
		agg.Signal()
		clock.Advance(window / 2)
	}
	assert.Equal(t, int32(0), fired.Load(), "no trigger before quiescence")

	clock.Advance(window)
	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, time.Millisecond)
}

func TestAggregatorFiresPerBurst(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var fired atomic.Int32
	agg := newAggregator(clock, window, func() { fired.Add(1) })
	defer agg.Close()

	agg.Signal()
	clock.Advance(window)
	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, time.Millisecond)

	agg.Signal()
	clock.Advance(window)
	assert.Eventually(t, func() bool { return fired.Load() == 2 },
		time.Second, time.Millisecond)
}

func TestAggregatorWindowRestarts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var fired atomic.Int32
	agg := newAggregator(clock, window, func() { fired.Add(1) })
	defer agg.Close()

	agg.Signal()
	clock.Advance(window - time.Millisecond)
	agg.Signal()
	// The first window's remainder elapses; the restarted window has not.
	clock.Advance(window - time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())

	clock.Advance(time.Millisecond)
	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, time.Millisecond)
}

func TestAggregatorCloseStopsPendingTrigger(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var fired atomic.Int32
	agg := newAggregator(clock, window, func() { fired.Add(1) })

	agg.Signal()
	agg.Close()
	clock.Advance(2 * window)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())

	// Signals after close are no-ops.
	agg.Signal()
	clock.Advance(2 * window)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}
