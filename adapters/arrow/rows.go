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

// Package arrow decodes Apache Arrow records and tables into rowsync
// rows, so sources that deliver columnar chunks can feed a row-oriented
// grid.
package arrow

import (
	"encoding/json"
	"fmt"

	apachearrow "github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/magpierre/fyne-rowsync/rowsync"
)

// ColumnDefs derives map-backed column definitions from an Arrow schema.
func ColumnDefs(schema *apachearrow.Schema) []rowsync.ColumnDefinition {
	defs := make([]rowsync.ColumnDefinition, 0, schema.NumFields())
	for _, field := range schema.Fields() {
		defs = append(defs, rowsync.ColumnDefinition{
			ColID: field.Name,
			Name:  field.Name,
		})
	}
	return defs
}

// RowsFromTable decodes a whole Arrow table into rows. Row identifiers
// come from idColumn when it names a schema field; otherwise rows are
// numbered row0, row1, … in table order.
func RowsFromTable(table apachearrow.Table, idColumn string) ([]rowsync.Row, error) {
	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	rows := make([]rowsync.Row, 0, table.NumRows())
	for tr.Next() {
		chunk, err := RowsFromRecord(tr.Record(), idColumn, len(rows))
		if err != nil {
			return nil, err
		}
		rows = append(rows, chunk...)
	}
	if tr.Err() != nil {
		return nil, fmt.Errorf("error reading table: %w", tr.Err())
	}
	return rows, nil
}

// RowsFromRecord decodes one Arrow record batch into rows. The offset
// numbers fallback identifiers when idColumn is absent.
func RowsFromRecord(rec apachearrow.Record, idColumn string, offset int) ([]rowsync.Row, error) {
	schema := rec.Schema()
	idIdx := -1
	if idColumn != "" {
		if indices := schema.FieldIndices(idColumn); len(indices) > 0 {
			idIdx = indices[0]
		}
	}

	numRows := int(rec.NumRows())
	rows := make([]rowsync.Row, 0, numRows)
	for rowIdx := 0; rowIdx < numRows; rowIdx++ {
		data := make(map[string]interface{}, rec.NumCols())
		for colIdx, col := range rec.Columns() {
			data[schema.Field(colIdx).Name] = typedValue(col, rowIdx)
		}

		id := fmt.Sprintf("row%d", offset+rowIdx)
		if idIdx >= 0 {
			id = formatValue(rec.Column(idIdx), rowIdx)
		}
		rows = append(rows, rowsync.Row{
			ID:   id,
			Path: rowsync.HierarchyPath{id},
			Data: data,
		})
	}
	return rows, nil
}

// formatValue converts an Arrow column value at a specific position to a string.
func formatValue(col apachearrow.Array, pos int) string {
	if col.IsNull(pos) {
		return ""
	}
	switch col.DataType().ID() {
	case apachearrow.STRING:
		return col.(*array.String).Value(pos)
	case apachearrow.INT64:
		return fmt.Sprintf("%d", col.(*array.Int64).Value(pos))
	case apachearrow.INT32:
		return fmt.Sprintf("%d", col.(*array.Int32).Value(pos))
	default:
		return fmt.Sprintf("%v", typedValue(col, pos))
	}
}

// typedValue returns the typed value at a position, preserving native
// types where a row map can hold them and formatting the rest.
func typedValue(col apachearrow.Array, pos int) interface{} {
	if col.IsNull(pos) {
		return nil
	}

	switch col.DataType().ID() {
	case apachearrow.STRING:
		return col.(*array.String).Value(pos)

	case apachearrow.BINARY:
		return string(col.(*array.Binary).Value(pos))

	case apachearrow.BOOL:
		return col.(*array.Boolean).Value(pos)

	case apachearrow.INT8:
		return col.(*array.Int8).Value(pos)

	case apachearrow.INT16:
		return col.(*array.Int16).Value(pos)

	case apachearrow.INT32:
		return col.(*array.Int32).Value(pos)

	case apachearrow.INT64:
		return col.(*array.Int64).Value(pos)

	case apachearrow.UINT8:
		return col.(*array.Uint8).Value(pos)

	case apachearrow.UINT16:
		return col.(*array.Uint16).Value(pos)

	case apachearrow.UINT32:
		return col.(*array.Uint32).Value(pos)

	case apachearrow.UINT64:
		return col.(*array.Uint64).Value(pos)

	case apachearrow.FLOAT16:
		return col.(*array.Float16).Value(pos).Float32()

	case apachearrow.FLOAT32:
		return col.(*array.Float32).Value(pos)

	case apachearrow.FLOAT64:
		return col.(*array.Float64).Value(pos)

	case apachearrow.DATE32:
		return col.(*array.Date32).Value(pos).ToTime().Format("2006-01-02")

	case apachearrow.DATE64:
		return col.(*array.Date64).Value(pos).ToTime().Format("2006-01-02")

	case apachearrow.TIMESTAMP:
		return col.(*array.Timestamp).Value(pos).ToTime(apachearrow.Nanosecond).Format("2006-01-02T15:04:05.999999999Z")

	case apachearrow.DECIMAL128:
		return col.(*array.Decimal128).Value(pos).BigInt().String()

	case apachearrow.STRUCT:
		b, _ := col.(*array.Struct).MarshalJSON()
		var result interface{}
		json.Unmarshal(b, &result)
		return result

	case apachearrow.LIST:
		as := array.NewSlice(col, int64(pos), int64(pos+1))
		return fmt.Sprintf("%v", as)

	default:
		return fmt.Sprintf("%v", col)
	}
}
