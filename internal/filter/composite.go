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

// Package filter evaluates row filters for hosting grids, including
// composite AND/OR filters and skip-aware wrappers that honor a table's
// filter exemptions.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/magpierre/fyne-rowsync/rowsync"
)

// ErrInvalidFilter is returned when a filter is misconfigured.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter decides whether a row passes.
type Filter interface {
	// Evaluate returns true if the row passes the filter.
	Evaluate(row rowsync.Row) (bool, error)

	// Description returns a human-readable description of the filter.
	Description() string
}

// LogicOp represents a logical operator for combining filters.
type LogicOp int

const (
	// LogicAND requires all filters to pass.
	LogicAND LogicOp = iota
	// LogicOR requires at least one filter to pass.
	LogicOR
)

// String returns the string representation of a LogicOp.
func (op LogicOp) String() string {
	switch op {
	case LogicAND:
		return "AND"
	case LogicOR:
		return "OR"
	default:
		return fmt.Sprintf("unknown(%d)", op)
	}
}

// CompositeFilter combines multiple filters with AND or OR logic.
type CompositeFilter struct {
	// Filters is the list of filters to combine.
	Filters []Filter

	// Logic specifies how to combine the filters (AND or OR).
	Logic LogicOp
}

// Evaluate implements the Filter interface.
func (f *CompositeFilter) Evaluate(row rowsync.Row) (bool, error) {
	if len(f.Filters) == 0 {
		return true, nil // Empty filter passes all rows
	}

	switch f.Logic {
	case LogicAND:
		// All filters must pass
		for _, filter := range f.Filters {
			passes, err := filter.Evaluate(row)
			if err != nil {
				return false, err
			}
			if !passes {
				return false, nil // Short-circuit on first failure
			}
		}
		return true, nil

	case LogicOR:
		// At least one filter must pass
		for _, filter := range f.Filters {
			passes, err := filter.Evaluate(row)
			if err != nil {
				return false, err
			}
			if passes {
				return true, nil // Short-circuit on first success
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("%w: unknown logic operator %d", ErrInvalidFilter, f.Logic)
	}
}

// Description implements the Filter interface.
func (f *CompositeFilter) Description() string {
	if len(f.Filters) == 0 {
		return "empty filter"
	}

	descriptions := make([]string, len(f.Filters))
	for i, filter := range f.Filters {
		descriptions[i] = filter.Description()
	}

	logicStr := f.Logic.String()
	return "(" + strings.Join(descriptions, " "+logicStr+" ") + ")"
}

// SkipAware wraps a filter with a skip predicate: rows the predicate
// matches bypass the inner filter entirely. Loading rows and rows in a
// table's filter exemption set are passed this way.
type SkipAware struct {
	// Inner is the filter applied to non-skipped rows.
	Inner Filter

	// Skip reports whether a row bypasses filtering.
	Skip func(row rowsync.Row) bool
}

// Evaluate implements the Filter interface.
func (f *SkipAware) Evaluate(row rowsync.Row) (bool, error) {
	if f.Skip != nil && f.Skip(row) {
		return true, nil
	}
	if f.Inner == nil {
		return true, nil
	}
	return f.Inner.Evaluate(row)
}

// Description implements the Filter interface.
func (f *SkipAware) Description() string {
	if f.Inner == nil {
		return "skip-aware(pass-all)"
	}
	return "skip-aware(" + f.Inner.Description() + ")"
}

// Func adapts a plain predicate into a Filter.
type Func struct {
	// Fn is the predicate.
	Fn func(row rowsync.Row) (bool, error)

	// Desc describes the predicate.
	Desc string
}

// Evaluate implements the Filter interface.
func (f *Func) Evaluate(row rowsync.Row) (bool, error) {
	if f.Fn == nil {
		return true, nil
	}
	return f.Fn(row)
}

// Description implements the Filter interface.
func (f *Func) Description() string {
	if f.Desc == "" {
		return "func"
	}
	return f.Desc
}
