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

// Unsubscribe removes a previously installed event subscription.
type Unsubscribe func()

// RowTransaction is one batch mutation of the grid's row set. Add,
// Update, and Remove are applied atomically; Remove matches rows by
// identifier only.
type RowTransaction struct {
	Add    []Row
	Update []Row
	Remove []Row
}

// Grid is the hosting table widget as seen by the engine. Implementations
// must apply row mutations atomically; the engine serializes its own
// writes but the rendering path may read concurrently.
type Grid interface {
	// AllColumns returns the ordered column identifiers.
	AllColumns() []string

	// ColDef returns the definition of the given column.
	ColDef(colID string) (ColumnDefinition, bool)

	// ColumnState returns the current per-column sort state.
	ColumnState() []ColumnState

	// SetColumnDefs replaces the installed column definitions.
	SetColumnDefs(defs []ColumnDefinition)

	// SetAutoGroupColumnDef installs the definition of the synthesized
	// group column used for hierarchical display.
	SetAutoGroupColumnDef(def ColumnDefinition)

	// SetRowData replaces the entire row set.
	SetRowData(rows []Row)

	// ApplyTransaction applies one batch row mutation.
	ApplyTransaction(tx RowTransaction) error

	// RowNode looks up a row by identifier, whether or not it is
	// currently visible.
	RowNode(id string) (Row, bool)

	// OnFilterChanged subscribes to filter-model changes.
	OnFilterChanged(fn func()) Unsubscribe

	// OnSortChanged subscribes to sort-state changes.
	OnSortChanged(fn func()) Unsubscribe
}
