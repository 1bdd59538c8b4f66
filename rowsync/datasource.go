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

	"fyne.io/fyne/v2/data/binding"
)

// DataSource delivers row data to the engine in bulk chunks. One fetch
// replaces the whole row set; there is no incremental paging.
type DataSource interface {
	// Fetch retrieves one complete chunk of rows for the given view
	// state. Invoked once per aggregated trigger. The context is
	// cancelled when the fetch is superseded by a newer trigger or the
	// engine is closed.
	Fetch(ctx context.Context, view ViewState) ([]Row, error)

	// Loading exposes the source's own notion of being busy, driving
	// placeholder row insertion and removal. May return nil when the
	// source does not report loading state.
	Loading() binding.Bool

	// AdditionalTrigger is an opaque signal stream whose events force a
	// refetch, merged with the grid's filter/sort events. May return
	// nil.
	AdditionalTrigger() <-chan interface{}
}
