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
	"fmt"
	"strings"
)

// LoadingRowPrefix prefixes the identifier of every placeholder row.
const LoadingRowPrefix = "loading"

// GenerateLoadingRows produces k placeholder rows with deterministic
// identifiers loading0 … loading(k-1) and singleton hierarchy paths.
// The result is pure and deterministic; callers may compute it once and
// reuse it for the lifetime of a table instance. The batch is always
// inserted and removed as a whole, never partially.
func GenerateLoadingRows(k int) []Row {
	rows := make([]Row, 0, k)
	for i := 0; i < k; i++ {
		id := fmt.Sprintf("%s%d", LoadingRowPrefix, i)
		rows = append(rows, Row{
			ID:      id,
			Path:    HierarchyPath{id},
			Loading: true,
		})
	}
	return rows
}

// IsLoadingRowID reports whether id belongs to the reserved placeholder
// identifier range.
func IsLoadingRowID(id string) bool {
	return strings.HasPrefix(id, LoadingRowPrefix)
}
