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

package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magpierre/fyne-rowsync/rowsync"
)

func nameIs(name string) Filter {
	return &Func{
		Fn: func(row rowsync.Row) (bool, error) {
			return row.Data["name"] == name, nil
		},
		Desc: "name == " + name,
	}
}

func failing() Filter {
	return &Func{
		Fn: func(row rowsync.Row) (bool, error) {
			return false, errors.New("evaluation failed")
		},
		Desc: "failing",
	}
}

func row(id, name string) rowsync.Row {
	return rowsync.Row{ID: id, Data: map[string]interface{}{"name": name}}
}

func TestCompositeEmptyPassesAll(t *testing.T) {
	f := &CompositeFilter{}
	passes, err := f.Evaluate(row("r1", "alpha"))
	require.NoError(t, err)
	assert.True(t, passes)
}

func TestCompositeAND(t *testing.T) {
	f := &CompositeFilter{
		Filters: []Filter{nameIs("alpha"), nameIs("alpha")},
		Logic:   LogicAND,
	}
	passes, err := f.Evaluate(row("r1", "alpha"))
	require.NoError(t, err)
	assert.True(t, passes)

	f.Filters = append(f.Filters, nameIs("beta"))
	passes, err = f.Evaluate(row("r1", "alpha"))
	require.NoError(t, err)
	assert.False(t, passes)
}

func TestCompositeOR(t *testing.T) {
	f := &CompositeFilter{
		Filters: []Filter{nameIs("beta"), nameIs("alpha")},
		Logic:   LogicOR,
	}
	passes, err := f.Evaluate(row("r1", "alpha"))
	require.NoError(t, err)
	assert.True(t, passes)

	passes, err = f.Evaluate(row("r2", "gamma"))
	require.NoError(t, err)
	assert.False(t, passes)
}

func TestCompositeShortCircuitsOR(t *testing.T) {
	// The failing filter is never reached once a filter passes.
	f := &CompositeFilter{
		Filters: []Filter{nameIs("alpha"), failing()},
		Logic:   LogicOR,
	}
	passes, err := f.Evaluate(row("r1", "alpha"))
	require.NoError(t, err)
	assert.True(t, passes)
}

func TestCompositePropagatesErrors(t *testing.T) {
	f := &CompositeFilter{
		Filters: []Filter{failing(), nameIs("alpha")},
		Logic:   LogicAND,
	}
	_, err := f.Evaluate(row("r1", "alpha"))
	assert.Error(t, err)
}

func TestCompositeUnknownLogic(t *testing.T) {
	f := &CompositeFilter{
		Filters: []Filter{nameIs("alpha")},
		Logic:   LogicOp(42),
	}
	_, err := f.Evaluate(row("r1", "alpha"))
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestSkipAwareBypassesInnerFilter(t *testing.T) {
	f := &SkipAware{
		Inner: nameIs("alpha"),
		Skip: func(row rowsync.Row) bool {
			return row.Loading
		},
	}

	passes, err := f.Evaluate(rowsync.Row{ID: "loading0", Loading: true})
	require.NoError(t, err)
	assert.True(t, passes, "skipped rows pass regardless of the inner filter")

	passes, err = f.Evaluate(row("r1", "beta"))
	require.NoError(t, err)
	assert.False(t, passes)
}

func TestSkipAwareWithoutInnerPassesAll(t *testing.T) {
	f := &SkipAware{}
	passes, err := f.Evaluate(row("r1", "alpha"))
	require.NoError(t, err)
	assert.True(t, passes)
}

func TestDescriptions(t *testing.T) {
	composite := &CompositeFilter{
		Filters: []Filter{nameIs("alpha"), nameIs("beta")},
		Logic:   LogicOR,
	}
	assert.Equal(t, "(name == alpha OR name == beta)", composite.Description())
	assert.Equal(t, "empty filter", (&CompositeFilter{}).Description())
	assert.Equal(t, "skip-aware(name == alpha)", (&SkipAware{Inner: nameIs("alpha")}).Description())
}
