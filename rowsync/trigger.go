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
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// aggregator merges filter-changed, sort-changed, and external refresh
// signals into one debounced trigger stream. Each signal restarts the
// quiescence window; fire runs once per burst, after the stream has been
// silent for the full window. This is a debounce, not a throttle: the
// trigger always reflects the last state of the burst.
type aggregator struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	window time.Duration
	fire   func()
	timer  clockwork.Timer
	closed bool
}

func newAggregator(clock clockwork.Clock, window time.Duration, fire func()) *aggregator {
	return &aggregator{
		clock:  clock,
		window: window,
		fire:   fire,
	}
}

// Signal records one view-change event and restarts the quiescence
// window. Safe for concurrent use; events arriving within the window
// collapse into a single trigger.
func (a *aggregator) Signal() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = a.clock.AfterFunc(a.window, a.fire)
}

// Close stops any pending trigger and makes further signals no-ops.
func (a *aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
