/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package monitor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrameSummary(t *testing.T) {
	summary, ok := NewFrameSummary(mustDecode(t, testPayload), testTime)
	require.True(t, ok)
	assert.Equal(t, &FrameSummary{
		DomainID:      testDomain,
		SourceAddress: testSource,
		Version:       1,
		Priority:      0xa000,
		PortRole:      0,
		RingState:     0,
		Transition:    1,
		Timestamp:     0x19fa3fd4,
		SequenceID:    0x057e,
		LastSeen:      1700000000000,
	}, summary)

	_, ok = NewFrameSummary(mustDecode(t, ignoredPayload), testTime)
	assert.False(t, ok)
}

func TestObserveCountsFrames(t *testing.T) {
	state := newTestState(t)

	for i := 0; i < 3; i++ {
		summary, ok := NewFrameSummary(mustDecode(t, testPayload), testTime)
		require.True(t, ok)
		require.NoError(t, state.Observe(summary))
	}

	summary, err := state.GetFrameSummary(testDomain, testSource)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), summary.Frames)
	assert.Equal(t, uint16(0x057e), summary.SequenceID)

	stats, err := state.GetStats()
	require.NoError(t, err)
	assert.Equal(t, &Stats{Decoded: 3}, stats)
}

func TestGetDomain(t *testing.T) {
	state := newTestState(t)

	for _, payload := range []string{otherPayload, testPayload} {
		summary, ok := NewFrameSummary(mustDecode(t, payload), testTime)
		require.True(t, ok)
		require.NoError(t, state.Observe(summary))
	}

	view, err := state.GetDomain(testDomain)
	require.NoError(t, err)
	assert.Equal(t, testDomain, view.DomainID)
	require.Len(t, view.Sources, 2)
	// sources come back ordered by address
	assert.Equal(t, testSource, view.Sources[0].SourceAddress)
	assert.Equal(t, "00:0e:8c:e0:2f:33", view.Sources[1].SourceAddress)

	domains, err := state.GetAllDomains()
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, view, domains[0])
}

func TestNotFound(t *testing.T) {
	state := newTestState(t)

	_, err := state.GetDomain(testDomain)
	assert.ErrorAs(t, err, &ErrNotFound{})

	_, err = state.GetFrameSummary(testDomain, testSource)
	assert.Equal(t, ErrNotFound{What: "Domain", Key: testDomain}, err)

	summary, _ := NewFrameSummary(mustDecode(t, testPayload), testTime)
	require.NoError(t, state.Observe(summary))
	_, err = state.GetFrameSummary(testDomain, "00:00:00:00:00:01")
	assert.Equal(t, ErrNotFound{What: "Source", Key: "00:00:00:00:00:01"}, err)

	domains, err := state.GetAllDomains()
	require.NoError(t, err)
	assert.Len(t, domains, 1)
}

func TestEmptyState(t *testing.T) {
	state := newTestState(t)

	domains, err := state.GetAllDomains()
	require.NoError(t, err)
	assert.Empty(t, domains)
	assert.NotNil(t, domains)

	stats, err := state.GetStats()
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, stats)
}

func TestStatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.db")

	state, err := NewState(context.Background(), path)
	require.NoError(t, err)
	summary, _ := NewFrameSummary(mustDecode(t, testPayload), testTime)
	require.NoError(t, state.Observe(summary))
	require.NoError(t, state.CountFailure())
	require.NoError(t, state.CountIgnored())
	state.Close()

	state, err = NewState(context.Background(), path)
	require.NoError(t, err)
	defer state.Close()

	stats, err := state.GetStats()
	require.NoError(t, err)
	assert.Equal(t, &Stats{Decoded: 1, Failed: 1, Ignored: 1}, stats)

	stored, err := state.GetFrameSummary(testDomain, testSource)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stored.Frames)
	assert.Equal(t, uint64(1700000000000), stored.LastSeen)
}
