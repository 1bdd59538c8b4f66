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

// Package memgrid provides an in-memory implementation of rowsync.Grid:
// an ordered row store with column definitions, sort state, filtering,
// and change events. It backs headless hosts and tests; GUI table
// widgets implement the same contract against their own row model.
package memgrid

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/magpierre/fyne-rowsync/internal/filter"
	"github.com/magpierre/fyne-rowsync/rowsync"
)

// Grid is an in-memory rowsync.Grid. All mutations are applied
// atomically under one mutex; change events fire synchronously after the
// mutation is visible.
type Grid struct {
	mu       sync.Mutex
	defs     []rowsync.ColumnDefinition
	defIndex map[string]int
	groupDef rowsync.ColumnDefinition

	rows  []rowsync.Row
	byID  map[string]int
	state rowsync.ColumnState

	filter filter.Filter
	skip   func(rowsync.Row) bool

	filterSubs map[int]func()
	sortSubs   map[int]func()
	nextSub    int
}

// New creates a grid with the given column definitions.
func New(defs ...rowsync.ColumnDefinition) *Grid {
	g := &Grid{
		byID:       make(map[string]int),
		filterSubs: make(map[int]func()),
		sortSubs:   make(map[int]func()),
		state:      rowsync.ColumnState{Direction: rowsync.SortNone},
	}
	g.SetColumnDefs(defs)
	return g
}

// AllColumns implements rowsync.Grid.
func (g *Grid) AllColumns() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	cols := make([]string, len(g.defs))
	for i, def := range g.defs {
		cols[i] = def.ColID
	}
	return cols
}

// ColDef implements rowsync.Grid.
func (g *Grid) ColDef(colID string) (rowsync.ColumnDefinition, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i, ok := g.defIndex[colID]
	if !ok {
		return rowsync.ColumnDefinition{}, false
	}
	return g.defs[i], true
}

// ColumnState implements rowsync.Grid. Every column is reported, with
// SortNone for columns that are not the active sort column.
func (g *Grid) ColumnState() []rowsync.ColumnState {
	g.mu.Lock()
	defer g.mu.Unlock()
	states := make([]rowsync.ColumnState, len(g.defs))
	for i, def := range g.defs {
		states[i] = rowsync.ColumnState{ColID: def.ColID, Direction: rowsync.SortNone}
		if def.ColID == g.state.ColID {
			states[i].Direction = g.state.Direction
		}
	}
	return states
}

// SetColumnDefs implements rowsync.Grid.
func (g *Grid) SetColumnDefs(defs []rowsync.ColumnDefinition) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.defs = append([]rowsync.ColumnDefinition(nil), defs...)
	g.defIndex = make(map[string]int, len(defs))
	for i, def := range defs {
		g.defIndex[def.ColID] = i
	}
}

// SetAutoGroupColumnDef implements rowsync.Grid.
func (g *Grid) SetAutoGroupColumnDef(def rowsync.ColumnDefinition) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.groupDef = def
}

// AutoGroupColumnDef returns the installed group column definition.
func (g *Grid) AutoGroupColumnDef() rowsync.ColumnDefinition {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.groupDef
}

// SetRowData implements rowsync.Grid, replacing the entire row set.
func (g *Grid) SetRowData(rows []rowsync.Row) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows = append([]rowsync.Row(nil), rows...)
	g.reindex()
}

// ApplyTransaction implements rowsync.Grid. Adds reject duplicate
// identifiers; updates and removes match by identifier and ignore rows
// that are absent.
func (g *Grid) ApplyTransaction(tx rowsync.RowTransaction) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, row := range tx.Add {
		if _, exists := g.byID[row.ID]; exists {
			return fmt.Errorf("%w: %s", rowsync.ErrDuplicateRowID, row.ID)
		}
		g.rows = append(g.rows, row)
		g.byID[row.ID] = len(g.rows) - 1
	}
	for _, row := range tx.Update {
		if i, exists := g.byID[row.ID]; exists {
			g.rows[i] = row
		}
	}
	if len(tx.Remove) > 0 {
		drop := make(map[string]struct{}, len(tx.Remove))
		for _, row := range tx.Remove {
			drop[row.ID] = struct{}{}
		}
		kept := g.rows[:0]
		for _, row := range g.rows {
			if _, gone := drop[row.ID]; !gone {
				kept = append(kept, row)
			}
		}
		g.rows = kept
		g.reindex()
	}
	return nil
}

// RowNode implements rowsync.Grid. It consults the full row store, so
// rows hidden by the active filter are still found.
func (g *Grid) RowNode(id string) (rowsync.Row, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i, ok := g.byID[id]
	if !ok {
		return rowsync.Row{}, false
	}
	return g.rows[i], true
}

// OnFilterChanged implements rowsync.Grid.
func (g *Grid) OnFilterChanged(fn func()) rowsync.Unsubscribe {
	return g.subscribe(g.filterSubs, fn)
}

// OnSortChanged implements rowsync.Grid.
func (g *Grid) OnSortChanged(fn func()) rowsync.Unsubscribe {
	return g.subscribe(g.sortSubs, fn)
}

func (g *Grid) subscribe(subs map[int]func(), fn func()) rowsync.Unsubscribe {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	subs[id] = fn
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(subs, id)
		g.mu.Unlock()
	}
}

// SetSort changes the active sort column and direction, then notifies
// sort subscribers.
func (g *Grid) SetSort(colID string, direction rowsync.SortDirection) {
	g.mu.Lock()
	g.state = rowsync.ColumnState{ColID: colID, Direction: direction}
	subs := snapshot(g.sortSubs)
	g.mu.Unlock()
	notify(subs)
}

// SetFilter installs a row filter and notifies filter subscribers. The
// skip predicate installed via SetFilterSkip is honored around it.
func (g *Grid) SetFilter(f filter.Filter) {
	g.mu.Lock()
	g.filter = f
	subs := snapshot(g.filterSubs)
	g.mu.Unlock()
	notify(subs)
}

// SetFilterSkip installs the predicate marking rows that bypass
// filtering, typically FeatureHooks.FilterSkip.
func (g *Grid) SetFilterSkip(skip func(rowsync.Row) bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.skip = skip
}

// Rows returns the visible rows: filtered, then sorted by the active
// sort column. Column comparators are authoritative where they offer an
// opinion; otherwise values compare naturally with the direction
// applied.
//
// Filters and accessors run outside the grid lock: wrapped accessors
// read the grid's column state back through ColumnState.
func (g *Grid) Rows() []rowsync.Row {
	g.mu.Lock()
	rows := append([]rowsync.Row(nil), g.rows...)
	eval := &filter.SkipAware{Inner: g.filter, Skip: g.skip}
	state := g.state
	var def rowsync.ColumnDefinition
	sorted := false
	if state.Direction != rowsync.SortNone {
		if i, ok := g.defIndex[state.ColID]; ok {
			def = g.defs[i]
			sorted = true
		}
	}
	g.mu.Unlock()

	visible := make([]rowsync.Row, 0, len(rows))
	for _, row := range rows {
		passes, err := eval.Evaluate(row)
		if err != nil || passes {
			visible = append(visible, row)
		}
	}

	if sorted {
		sort.SliceStable(visible, func(a, b int) bool {
			return compare(def, state.Direction, visible[a], visible[b]) < 0
		})
	}
	return visible
}

func compare(def rowsync.ColumnDefinition, dir rowsync.SortDirection, a, b rowsync.Row) int {
	if def.Comparator != nil {
		switch def.Comparator(a, b) {
		case rowsync.Less:
			return -1
		case rowsync.Greater:
			return 1
		}
	}
	getter := def.ValueGetter
	if getter == nil {
		getter = rowsync.MapValueGetter(def.ColID)
	}
	cmp := strings.Compare(getter(a).SortKey(), getter(b).SortKey())
	if dir == rowsync.SortDescending {
		cmp = -cmp
	}
	return cmp
}

// ExportValue resolves one cell through the column's export getter, the
// path clipboard and file export use.
func (g *Grid) ExportValue(id, colID string) (string, error) {
	g.mu.Lock()
	i, ok := g.byID[id]
	if !ok {
		g.mu.Unlock()
		return "", fmt.Errorf("row %q not found", id)
	}
	j, ok := g.defIndex[colID]
	if !ok {
		g.mu.Unlock()
		return "", fmt.Errorf("%w: %s", rowsync.ErrInvalidColumn, colID)
	}
	def := g.defs[j]
	row := g.rows[i]
	g.mu.Unlock()

	if def.ExportGetter != nil {
		return def.ExportGetter(row), nil
	}
	getter := def.ValueGetter
	if getter == nil {
		getter = rowsync.MapValueGetter(def.ColID)
	}
	return getter(row).Formatted, nil
}

func (g *Grid) reindex() {
	g.byID = make(map[string]int, len(g.rows))
	for i, row := range g.rows {
		g.byID[row.ID] = i
	}
}

func snapshot(subs map[int]func()) []func() {
	out := make([]func(), 0, len(subs))
	for _, fn := range subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
