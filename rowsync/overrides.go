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

import "strings"

// The override layer wraps every column's accessors so that the hosting
// grid's client-side sorting becomes a no-op for real data (the server
// owns the order) while placeholder rows stay pinned to the visual
// bottom under both sort directions. The sort-direction indicator and
// the user's ability to request a different server-side sort are left
// untouched; only the values and comparisons the grid sees change.

// WrapColumnDefs wraps the accessors and comparator of every column
// definition. The states function supplies the grid's current column
// state so direction-dependent sentinels track the active sort.
func WrapColumnDefs(defs []ColumnDefinition, states func() []ColumnState) []ColumnDefinition {
	wrapped := make([]ColumnDefinition, len(defs))
	for i, def := range defs {
		wrapped[i] = WrapColumnDef(def, states)
	}
	return wrapped
}

// WrapColumnDef wraps a single column definition with the loading-aware
// value getter, export getter, and comparator.
func WrapColumnDef(def ColumnDefinition, states func() []ColumnState) ColumnDefinition {
	if def.Name == "" {
		def.Name = def.ColID
	}
	dir := directionFunc(def.ColID, states)
	base := def.ValueGetter
	if base == nil {
		base = MapValueGetter(def.ColID)
	}

	wrapped := def
	wrapped.ValueGetter = wrapValueGetter(base, dir)
	wrapped.ExportGetter = wrapExportGetter(def.ExportGetter, base)
	wrapped.Comparator = wrapComparator(wrapped.ValueGetter, dir)
	return wrapped
}

// directionFunc resolves a column's current sort direction on demand.
func directionFunc(colID string, states func() []ColumnState) func() SortDirection {
	return func() SortDirection {
		if states == nil {
			return SortNone
		}
		for _, st := range states() {
			if st.ColID == colID {
				return st.Direction
			}
		}
		return SortNone
	}
}

// wrapValueGetter substitutes a direction-resolved sentinel for loading
// rows and for real rows whose getter yields no value, so unsortable
// rows order like loading rows. Real values pass through unchanged.
func wrapValueGetter(base ValueGetter, dir func() SortDirection) ValueGetter {
	return func(row Row) CellValue {
		if row.Loading {
			return NewSentinelValue(dir())
		}
		v := base(row)
		if v.Kind == CellReal && v.IsNull {
			return NewSentinelValue(dir())
		}
		return v
	}
}

// wrapExportGetter exports loading rows, sentinel cells, and aggregation
// placeholders as empty. Real rows delegate to the dedicated export
// getter, falling back to the value getter against the row's actual
// backing data.
func wrapExportGetter(export ExportGetter, base ValueGetter) ExportGetter {
	return func(row Row) string {
		if row.Loading {
			return ""
		}
		v := base(row)
		if _, ok := v.Raw.(AggregatedValue); ok {
			return ""
		}
		if export != nil {
			return export(row)
		}
		if v.Kind == CellSentinel {
			return ""
		}
		return v.Formatted
	}
}

// wrapComparator forces loading rows after all non-loading rows under
// both sort directions. When neither row is loading it returns NoOpinion
// so the grid's default comparison orders real data.
//
// The returned result is final: the grid must apply it as-is and only
// direction-adjust its own fallback comparison. The descending inversion
// here keeps the push-to-bottom effect when the low sentinel would
// otherwise sort loading rows first.
func wrapComparator(value ValueGetter, dir func() SortDirection) Comparator {
	return func(a, b Row) CompareResult {
		if !a.Loading && !b.Loading {
			return NoOpinion
		}
		cmp := strings.Compare(value(a).SortKey(), value(b).SortKey())
		if cmp == 0 {
			// Both loading: order by identifier for determinism.
			cmp = strings.Compare(a.ID, b.ID)
		}
		if dir() == SortDescending {
			cmp = -cmp
		}
		switch {
		case cmp < 0:
			return Less
		case cmp > 0:
			return Greater
		default:
			return NoOpinion
		}
	}
}
