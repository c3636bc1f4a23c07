package gcstats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/gcstats/internal/cycle"
	"github.com/agbru/gcstats/internal/heap"
)

func TestStats_JSONKeys(t *testing.T) {
	t.Parallel()
	r := cycle.NewReport(
		heap.Snapshot{TotalHeapSize: 100, UsedHeapSize: 40},
		heap.Snapshot{TotalHeapSize: 120, UsedHeapSize: 35},
		0, 5_000_000, GCTypeFull,
	)
	out, err := json.Marshal(newStats(r))
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &fields))
	for _, key := range []string{"pause", "pauseMS", "gctype", "before", "after", "diff"} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "Seq")
	assert.JSONEq(t, `5000000`, string(fields["pause"]))
	assert.JSONEq(t, `5`, string(fields["pauseMS"]))
	assert.JSONEq(t, `1`, string(fields["gctype"]))
	assert.JSONEq(t,
		`{"totalHeapSize":20,"totalHeapExecutableSize":0,"usedHeapSize":-5,"heapSizeLimit":0}`,
		string(fields["diff"]))
}

func TestStats_UnknownTypeOmitted(t *testing.T) {
	t.Parallel()
	r := cycle.NewReport(heap.Snapshot{}, heap.Snapshot{}, 0, 0, GCTypeUnknown)
	out, err := json.Marshal(newStats(r))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "gctype")
}

func TestStats_PhysicalSizeAllOrNothing(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		before       heap.Snapshot
		after        heap.Snapshot
		wantPhysical bool
	}{
		{"both sides", heap.Snapshot{TotalPhysicalSize: 1, HasPhysical: true}, heap.Snapshot{TotalPhysicalSize: 2, HasPhysical: true}, true},
		{"before only", heap.Snapshot{TotalPhysicalSize: 1, HasPhysical: true}, heap.Snapshot{}, false},
		{"after only", heap.Snapshot{}, heap.Snapshot{TotalPhysicalSize: 2, HasPhysical: true}, false},
		{"neither", heap.Snapshot{}, heap.Snapshot{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newStats(cycle.NewReport(tt.before, tt.after, 0, 0, GCTypeFull))
			assert.Equal(t, tt.wantPhysical, s.Before.TotalPhysicalSize != nil)
			assert.Equal(t, tt.wantPhysical, s.After.TotalPhysicalSize != nil)
			assert.Equal(t, tt.wantPhysical, s.Diff.TotalPhysicalSize != nil)

			out, err := json.Marshal(s)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPhysical, json.Valid(out) && containsKey(out, "totalPhysicalSize"))
		})
	}
}

func containsKey(doc []byte, key string) bool {
	var s struct {
		Before map[string]json.RawMessage `json:"before"`
	}
	if err := json.Unmarshal(doc, &s); err != nil {
		return false
	}
	_, ok := s.Before[key]
	return ok
}
