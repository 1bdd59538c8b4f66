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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// fetchState tracks the coordinator's cycle: Idle -> Fetching -> Idle,
// repeating for the lifetime of the table instance.
type fetchState int

const (
	stateIdle fetchState = iota
	stateFetching
)

// coordinator runs one clear -> fetch -> apply cycle per aggregated
// trigger. Each cycle carries a monotonically increasing generation
// number; a completing fetch applies its result only if its generation
// is still current, so overlapping fetches never resurrect stale rows.
type coordinator struct {
	mu      *sync.Mutex
	grid    Grid
	source  DataSource
	alive   func() bool
	view    func() ViewState
	timeout time.Duration
	log     *logrus.Entry

	dataEmit chan<- []Row
	errs     chan error

	gen    uint64
	state  fetchState
	cancel context.CancelFunc
}

func newCoordinator(mu *sync.Mutex, grid Grid, source DataSource, alive func() bool, view func() ViewState, timeout time.Duration, dataEmit chan<- []Row, log *logrus.Entry) *coordinator {
	return &coordinator{
		mu:       mu,
		grid:     grid,
		source:   source,
		alive:    alive,
		view:     view,
		timeout:  timeout,
		log:      log,
		dataEmit: dataEmit,
		errs:     make(chan error, 16),
	}
}

// Refetch starts a new fetch cycle, superseding any cycle still in
// flight: the previous context is cancelled, the row set is cleared
// synchronously so stale rows never remain visible, and the fetch runs
// asynchronously under the configured watchdog timeout.
func (c *coordinator) Refetch() {
	c.mu.Lock()
	if !c.alive() {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.cancel = cancel
	c.state = stateFetching
	view := c.view()
	c.grid.SetRowData(nil)
	c.mu.Unlock()

	c.log.WithField("generation", gen).Debug("starting fetch")
	go c.fetch(ctx, cancel, gen, view)
}

func (c *coordinator) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, view ViewState) {
	rows, err := c.source.Fetch(ctx, view)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.WithField("generation", gen).Debug("fetch superseded, discarding result")
		return
	}
	c.state = stateIdle
	if !c.alive() {
		return
	}
	if err != nil {
		// Leave the row set empty rather than stale, surface the
		// error, and return to Idle.
		c.publishErr(fmt.Errorf("%w: %v", ErrFetchFailed, err))
		return
	}
	c.grid.SetRowData(rows)
	c.emit(rows)
}

// CancelInFlight cancels the current fetch's context, if any. The caller
// must hold the coordinator's mutex.
func (c *coordinator) CancelInFlight() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Fetching reports whether a fetch cycle is in flight.
func (c *coordinator) Fetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateFetching
}

// Errors returns the channel fetch failures are surfaced on.
func (c *coordinator) Errors() <-chan error {
	return c.errs
}

// emit publishes a fetched chunk to the data-emit sink without blocking
// the apply path; slow consumers miss chunks rather than stall the grid.
func (c *coordinator) emit(rows []Row) {
	if c.dataEmit == nil {
		return
	}
	select {
	case c.dataEmit <- rows:
	default:
		c.log.Debug("data emit sink full, dropping chunk")
	}
}

func (c *coordinator) publishErr(err error) {
	select {
	case c.errs <- err:
	default:
		c.log.WithError(err).Warn("error channel full, dropping fetch error")
	}
}
