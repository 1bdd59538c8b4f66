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
	"sync"

	"github.com/sirupsen/logrus"
)

// reconciler keeps placeholder presence in the row set aligned with the
// data source's loading signal. The signal is independent of the fetch
// cycle; on every emission the desired state is diffed against whether
// the placeholder batch is currently present, so repeated emissions of
// the same state are no-ops.
type reconciler struct {
	mu    *sync.Mutex
	grid  Grid
	batch []Row
	alive func() bool
	log   *logrus.Entry
}

func newReconciler(mu *sync.Mutex, grid Grid, batch []Row, alive func() bool, log *logrus.Entry) *reconciler {
	return &reconciler{
		mu:    mu,
		grid:  grid,
		batch: batch,
		alive: alive,
		log:   log,
	}
}

// Apply reacts to one emission of the loading signal, inserting or
// removing the whole placeholder batch as a single transaction. Inert
// after the engine is closed.
func (r *reconciler) Apply(loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.alive() || len(r.batch) == 0 {
		return
	}
	_, present := r.grid.RowNode(r.batch[0].ID)
	if loading == present {
		return
	}
	var tx RowTransaction
	if loading {
		tx.Add = r.batch
	} else {
		tx.Remove = r.batch
	}
	if err := r.grid.ApplyTransaction(tx); err != nil {
		r.log.WithError(err).Warn("placeholder transaction failed")
	}
}
