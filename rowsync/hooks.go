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

import "sync"

// FilterContext holds the set of row identifiers exempted from filtering
// for one table instance. It is injected at setup time rather than looked
// up from process-wide state, so two tables never share exemptions by
// accident. Safe for concurrent use.
type FilterContext struct {
	mu      sync.RWMutex
	tableID string
	exempt  map[string]struct{}
}

// NewFilterContext creates a filter context for the given table with an
// optional initial set of exempted row identifiers.
func NewFilterContext(tableID string, ids ...string) *FilterContext {
	fc := &FilterContext{
		tableID: tableID,
		exempt:  make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		fc.exempt[id] = struct{}{}
	}
	return fc
}

// TableID returns the owning table's identifier.
func (fc *FilterContext) TableID() string {
	return fc.tableID
}

// Exempt adds row identifiers to the exemption set.
func (fc *FilterContext) Exempt(ids ...string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for _, id := range ids {
		fc.exempt[id] = struct{}{}
	}
}

// Unexempt removes row identifiers from the exemption set.
func (fc *FilterContext) Unexempt(ids ...string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for _, id := range ids {
		delete(fc.exempt, id)
	}
}

// IsExempt reports whether the row identifier is exempt from filtering.
func (fc *FilterContext) IsExempt(id string) bool {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	_, ok := fc.exempt[id]
	return ok
}

// LoadingRowRendererID names the renderer component hosts register for
// loading rows: a single full-width skeleton bar.
const LoadingRowRendererID = "loadingRowRenderer"

// FeatureHooks is the setup descriptor the engine exposes to the hosting
// grid's feature-registration mechanism. The hooks are pure predicates;
// the grid consults them during rendering and filtering.
type FeatureHooks struct {
	// TableID identifies the table instance the hooks belong to.
	TableID string

	// RendererID references the loading-aware row renderer component
	// the host should register.
	RendererID string

	// IsRowSelectable reports whether a row may be selected. Loading
	// rows are not selectable.
	IsRowSelectable func(row Row) bool

	// FilterSkip reports whether a row bypasses filtering entirely,
	// consulting the table's filter context.
	FilterSkip func(row Row) bool

	// ColumnSpan returns how many columns a row's cell spans given the
	// grid's column count. Loading rows span the full width plus one so
	// they render as a single skeleton bar; real rows span one column.
	ColumnSpan func(row Row, columnCount int) int
}

func newFeatureHooks(tableID string, fc *FilterContext) FeatureHooks {
	return FeatureHooks{
		TableID:    tableID,
		RendererID: LoadingRowRendererID,
		IsRowSelectable: func(row Row) bool {
			return !row.Loading
		},
		FilterSkip: func(row Row) bool {
			return row.Loading || fc.IsExempt(row.ID)
		},
		ColumnSpan: func(row Row, columnCount int) int {
			if row.Loading {
				return columnCount + 1
			}
			return 1
		},
	}
}
