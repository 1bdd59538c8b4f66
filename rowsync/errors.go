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

import "errors"

// Common errors returned by the rowsync package.
var (
	// ErrNoGrid is returned when a required grid is nil.
	ErrNoGrid = errors.New("grid is nil")

	// ErrNoDataSource is returned when a required data source is nil.
	ErrNoDataSource = errors.New("data source is nil")

	// ErrEngineClosed is returned when an operation is attempted on a
	// closed engine.
	ErrEngineClosed = errors.New("engine is closed")

	// ErrFetchFailed is returned when the data source fails to deliver
	// a chunk.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrDuplicateRowID is returned when a row transaction would
	// introduce a duplicate row identifier.
	ErrDuplicateRowID = errors.New("duplicate row identifier")

	// ErrInvalidColumn is returned when a column identifier is unknown.
	ErrInvalidColumn = errors.New("invalid column identifier")
)
