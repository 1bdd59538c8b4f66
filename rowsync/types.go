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

// Package rowsync synchronizes the rows of a sortable/filterable data table
// with a remote source that delivers data in bulk chunks. It debounces
// view-change events into a single refetch, shows placeholder skeleton rows
// while a fetch is in flight, and neutralizes client-side sorting so the
// server's row order is authoritative.
package rowsync

import "fmt"

// HierarchyPath locates a row in a grouped/tree display.
// For ungrouped rows it is a single segment holding the row identifier.
type HierarchyPath []string

// Row is one displayable table row: a unique identifier, a hierarchy path,
// and a mapping from column identifiers to raw cell values.
// Loading marks synthetic placeholder rows shown while data is fetched.
type Row struct {
	// ID uniquely identifies the row within the current row set.
	ID string

	// Path is the row's position in the grouping hierarchy.
	Path HierarchyPath

	// Loading is true for placeholder rows generated during a fetch.
	Loading bool

	// Data maps column identifiers to raw values. Nil for loading rows.
	Data map[string]interface{}
}

// SortDirection specifies the direction of sorting.
type SortDirection int

const (
	// SortNone indicates no sorting.
	SortNone SortDirection = iota
	// SortAscending indicates ascending sort order.
	SortAscending
	// SortDescending indicates descending sort order.
	SortDescending
)

// String returns the string representation of a SortDirection.
func (sd SortDirection) String() string {
	switch sd {
	case SortNone:
		return "None"
	case SortAscending:
		return "Ascending"
	case SortDescending:
		return "Descending"
	default:
		return fmt.Sprintf("Unknown(%d)", sd)
	}
}

// ColumnState is one column's identifier and active sort direction.
// It is owned by the hosting grid's column subsystem; this package reads
// it but never mutates it.
type ColumnState struct {
	// ColID identifies the column.
	ColID string
	// Direction is the column's active sort direction.
	Direction SortDirection
}

// CellKind tags the variant held by a CellValue.
type CellKind int

const (
	// CellReal holds an actual value from the row's backing data.
	CellReal CellKind = iota
	// CellSentinel holds an out-of-band sort key standing in for a value
	// that must not participate in client-side ordering (loading rows,
	// rows with no value for the column).
	CellSentinel
)

// Sort sentinels. The high sentinel is the maximum code point so it sorts
// after every real string; the low sentinel sorts before every real string.
const (
	sortSentinelHigh = "\U0010FFFF"
	sortSentinelLow  = "\x00"
)

// CellValue is a tagged cell value: either a real value from the row's
// backing data or a sort sentinel. Display and export logic switch on
// Kind instead of coercing raw values.
type CellValue struct {
	// Kind selects the variant.
	Kind CellKind

	// Raw holds the underlying value for CellReal cells.
	Raw interface{}

	// IsNull indicates that a CellReal cell has no value.
	IsNull bool

	// Formatted is a pre-formatted string representation for display.
	// Empty for sentinel cells so skeleton rows render blank.
	Formatted string

	// Direction records the sort direction a sentinel was resolved
	// against. Meaningful only for CellSentinel cells.
	Direction SortDirection
}

// NewCellValue creates a real cell value from a raw value.
func NewCellValue(raw interface{}) CellValue {
	if raw == nil {
		return CellValue{Kind: CellReal, IsNull: true}
	}
	if agg, ok := raw.(AggregatedValue); ok {
		return CellValue{Kind: CellReal, Raw: raw, Formatted: agg.Formatted}
	}
	return CellValue{
		Kind:      CellReal,
		Raw:       raw,
		Formatted: fmt.Sprintf("%v", raw),
	}
}

// NewSentinelValue creates a sentinel cell value resolved against the
// given sort direction. Ascending uses the maximum-code-point sentinel so
// the owning row sorts to the end; any other direction uses the minimum.
func NewSentinelValue(direction SortDirection) CellValue {
	return CellValue{Kind: CellSentinel, Direction: direction}
}

// SortKey returns the string this cell contributes to client-side
// ordering: the formatted value for real cells, the direction-resolved
// sentinel for sentinel cells.
func (v CellValue) SortKey() string {
	if v.Kind == CellSentinel {
		if v.Direction == SortAscending {
			return sortSentinelHigh
		}
		return sortSentinelLow
	}
	return v.Formatted
}

// AggregatedValue marks a cell computed by group aggregation rather than
// taken from row data. Aggregated cells display their formatted text but
// export as empty.
type AggregatedValue struct {
	// Formatted is the display text of the aggregate.
	Formatted string
}

// CompareResult is the tri-state outcome of a comparator override.
type CompareResult int

const (
	// NoOpinion defers to the caller's default comparison.
	NoOpinion CompareResult = iota
	// Less orders the first operand before the second.
	Less
	// Greater orders the first operand after the second.
	Greater
)

// String returns the string representation of a CompareResult.
func (r CompareResult) String() string {
	switch r {
	case NoOpinion:
		return "NoOpinion"
	case Less:
		return "Less"
	case Greater:
		return "Greater"
	default:
		return fmt.Sprintf("Unknown(%d)", r)
	}
}

// ValueGetter resolves a row's cell value for one column.
type ValueGetter func(row Row) CellValue

// ExportGetter resolves a row's cell value for clipboard/file export.
type ExportGetter func(row Row) string

// Comparator orders two rows for one column. A NoOpinion result makes the
// caller fall back to its default comparison.
type Comparator func(a, b Row) CompareResult

// ColumnDefinition describes one column to the hosting grid: identity,
// display name, and the accessors the grid consults when rendering,
// sorting, and exporting.
type ColumnDefinition struct {
	// ColID identifies the column. Required.
	ColID string

	// Name is the column's display name. Defaults to ColID.
	Name string

	// ValueGetter resolves cell values. When nil, values are read
	// directly from Row.Data[ColID].
	ValueGetter ValueGetter

	// ExportGetter resolves cell values for export. When nil, export
	// falls back to the value getter.
	ExportGetter ExportGetter

	// Comparator orders rows for this column. When nil, the grid's
	// default comparison applies.
	Comparator Comparator
}

// MapValueGetter returns a ValueGetter reading the column's raw value
// straight out of Row.Data.
func MapValueGetter(colID string) ValueGetter {
	return func(row Row) CellValue {
		raw, ok := row.Data[colID]
		if !ok {
			return CellValue{Kind: CellReal, IsNull: true}
		}
		return NewCellValue(raw)
	}
}

// ViewState is a snapshot of the view configuration a fetch was issued
// for: the per-column sort state and a revision counter bumped on every
// filter change, so a fetch can be traced to the view it reflects.
type ViewState struct {
	// Columns is the per-column sort state at trigger time.
	Columns []ColumnState

	// FilterRevision counts filter-changed events observed so far.
	FilterRevision uint64
}
