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
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2/data/binding"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// AutoGroupColumnID identifies the synthesized group column installed for
// hierarchical display.
const AutoGroupColumnID = "autoGroup"

// Config configures an Engine.
type Config struct {
	// LoadingRowCount is the size K of the placeholder batch.
	LoadingRowCount int

	// QuiescenceWindow is the debounce interval: a trigger fires only
	// after this much silence following the last view-change event.
	QuiescenceWindow time.Duration

	// FetchTimeout bounds one fetch; a fetch exceeding it is treated as
	// failed so the engine can never stay in the Fetching state forever.
	FetchTimeout time.Duration

	// Clock drives the quiescence window. Defaults to the real clock;
	// tests substitute a fake.
	Clock clockwork.Clock

	// Logger receives engine diagnostics. Defaults to the standard
	// logrus logger.
	Logger *logrus.Logger

	// DataEmit, when non-nil, receives every applied chunk.
	DataEmit chan<- []Row

	// ExemptFromFiltering seeds the table's filter context with row
	// identifiers that bypass filtering. Loading row identifiers are
	// always included.
	ExemptFromFiltering []string
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		LoadingRowCount:  25,
		QuiescenceWindow: 100 * time.Millisecond,
		FetchTimeout:     60 * time.Second,
	}
}

// Engine synchronizes one table instance with its remote data source.
// View-change events (filter, sort, external triggers) are debounced
// into single fetch cycles; the data source's loading signal drives
// placeholder skeleton rows; wrapped column accessors neutralize
// client-side sorting. Create with New, start with Attach, and always
// Close when the table is torn down.
type Engine struct {
	mu     sync.Mutex
	grid   Grid
	source DataSource
	cfg    Config
	id     string
	log    *logrus.Entry

	placeholders []Row
	filterCtx    *FilterContext
	filterRev    atomic.Uint64
	closed       atomic.Bool

	agg   *aggregator
	coord *coordinator
	rec   *reconciler

	unsubs          []Unsubscribe
	loadingListener binding.DataListener
	stop            chan struct{}
}

// New creates an engine for the given grid and data source. The zero
// value of any Config field falls back to its default.
func New(grid Grid, source DataSource, cfg Config) (*Engine, error) {
	if grid == nil {
		return nil, ErrNoGrid
	}
	if source == nil {
		return nil, ErrNoDataSource
	}
	def := DefaultConfig()
	if cfg.LoadingRowCount <= 0 {
		cfg.LoadingRowCount = def.LoadingRowCount
	}
	if cfg.QuiescenceWindow <= 0 {
		cfg.QuiescenceWindow = def.QuiescenceWindow
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	e := &Engine{
		grid:         grid,
		source:       source,
		cfg:          cfg,
		id:           uuid.NewString(),
		placeholders: GenerateLoadingRows(cfg.LoadingRowCount),
		stop:         make(chan struct{}),
	}
	e.log = cfg.Logger.WithField("table_id", e.id)

	exempt := make([]string, 0, cfg.LoadingRowCount+len(cfg.ExemptFromFiltering))
	for _, row := range e.placeholders {
		exempt = append(exempt, row.ID)
	}
	exempt = append(exempt, cfg.ExemptFromFiltering...)
	e.filterCtx = NewFilterContext(e.id, exempt...)

	e.coord = newCoordinator(&e.mu, grid, source, e.alive, e.view, cfg.FetchTimeout, cfg.DataEmit, e.log)
	e.rec = newReconciler(&e.mu, grid, e.placeholders, e.alive, e.log)
	e.agg = newAggregator(cfg.Clock, cfg.QuiescenceWindow, e.coord.Refetch)
	return e, nil
}

// Attach installs the wrapped column definitions on the grid and starts
// listening to the grid's filter/sort events, the source's additional
// trigger stream, and the source's loading signal.
func (e *Engine) Attach() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	defs := make([]ColumnDefinition, 0, len(e.grid.AllColumns()))
	for _, colID := range e.grid.AllColumns() {
		if def, ok := e.grid.ColDef(colID); ok {
			defs = append(defs, def)
		}
	}
	e.grid.SetColumnDefs(WrapColumnDefs(defs, e.grid.ColumnState))
	e.grid.SetAutoGroupColumnDef(WrapColumnDef(autoGroupColumnDef(), e.grid.ColumnState))

	e.unsubs = append(e.unsubs,
		e.grid.OnFilterChanged(func() {
			e.filterRev.Add(1)
			e.agg.Signal()
		}),
		e.grid.OnSortChanged(e.agg.Signal),
	)

	if trig := e.source.AdditionalTrigger(); trig != nil {
		go e.forwardTriggers(trig)
	}

	if loading := e.source.Loading(); loading != nil {
		e.loadingListener = binding.NewDataListener(func() {
			v, err := loading.Get()
			if err != nil {
				e.log.WithError(err).Warn("loading signal read failed")
				return
			}
			e.rec.Apply(v)
		})
		loading.AddListener(e.loadingListener)
	}

	e.log.WithField("columns", len(defs)).Debug("engine attached")
	return nil
}

// Refetch requests a refresh through the trigger aggregator, coalescing
// with any other view-change events in the same quiescent burst.
func (e *Engine) Refetch() {
	e.agg.Signal()
}

// Close tears the engine down: all subscriptions are removed, any
// in-flight fetch is cancelled, and no row mutation runs afterwards.
// Safe to call more than once.
func (e *Engine) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	close(e.stop)
	e.agg.Close()

	e.mu.Lock()
	e.coord.CancelInFlight()
	e.mu.Unlock()

	for _, unsub := range e.unsubs {
		unsub()
	}
	e.unsubs = nil
	if e.loadingListener != nil {
		if loading := e.source.Loading(); loading != nil {
			loading.RemoveListener(e.loadingListener)
		}
		e.loadingListener = nil
	}
	e.log.Debug("engine closed")
}

// TableID returns the engine's unique table instance identifier.
func (e *Engine) TableID() string {
	return e.id
}

// Fetching reports whether a fetch cycle is currently in flight.
func (e *Engine) Fetching() bool {
	return e.coord.Fetching()
}

// Errors returns the channel fetch failures are surfaced on.
func (e *Engine) Errors() <-chan error {
	return e.coord.Errors()
}

// Hooks returns the setup descriptor for the hosting grid's
// feature-registration mechanism.
func (e *Engine) Hooks() FeatureHooks {
	return newFeatureHooks(e.id, e.filterCtx)
}

// FilterContext returns the table's filter exemption context.
func (e *Engine) FilterContext() *FilterContext {
	return e.filterCtx
}

func (e *Engine) alive() bool {
	return !e.closed.Load()
}

func (e *Engine) view() ViewState {
	return ViewState{
		Columns:        e.grid.ColumnState(),
		FilterRevision: e.filterRev.Load(),
	}
}

func (e *Engine) forwardTriggers(trig <-chan interface{}) {
	for {
		select {
		case <-e.stop:
			return
		case _, ok := <-trig:
			if !ok {
				return
			}
			e.agg.Signal()
		}
	}
}

// autoGroupColumnDef is the unwrapped definition of the synthesized
// group column: it displays the first hierarchy path segment.
func autoGroupColumnDef() ColumnDefinition {
	return ColumnDefinition{
		ColID: AutoGroupColumnID,
		Name:  "Group",
		ValueGetter: func(row Row) CellValue {
			if len(row.Path) == 0 {
				return CellValue{Kind: CellReal, IsNull: true}
			}
			return NewCellValue(row.Path[0])
		},
	}
}
