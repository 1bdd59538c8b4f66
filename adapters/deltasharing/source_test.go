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

package deltasharing

import (
	"testing"

	delta_sharing "github.com/magpierre/go_delta_sharing_client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource(t *testing.T) {
	s := New("profile-json", delta_sharing.Table{Name: "trips"}, "file-1", "trip_id")

	require.NotNil(t, s.Loading())
	loading, err := s.Loading().Get()
	require.NoError(t, err)
	assert.False(t, loading)
	assert.NotNil(t, s.AdditionalTrigger())
}

func TestTriggerRefreshDelivers(t *testing.T) {
	s := New("profile-json", delta_sharing.Table{Name: "trips"}, "file-1", "")

	s.TriggerRefresh("manual")
	select {
	case payload := <-s.AdditionalTrigger():
		assert.Equal(t, "manual", payload)
	default:
		t.Fatal("trigger not delivered")
	}
}

func TestTriggerRefreshNeverBlocks(t *testing.T) {
	s := New("profile-json", delta_sharing.Table{Name: "trips"}, "file-1", "")

	// Saturate the stream; further triggers are dropped, not blocked. A
	// pending trigger already guarantees a refetch.
	for i := 0; i < 100; i++ {
		s.TriggerRefresh(i)
	}
}
