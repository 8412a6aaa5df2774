package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/gradeview/pkg/domain/types"
)

func TestDatasetStateValidation(t *testing.T) {
	tests := []struct {
		name     string
		state    types.DatasetState
		expected bool
	}{
		{"Valid loading", types.DatasetStateLoading, true},
		{"Valid ready", types.DatasetStateReady, true},
		{"Valid failed", types.DatasetStateFailed, true},
		{"Invalid empty", types.DatasetState(""), false},
		{"Invalid mixed case", types.DatasetState("Ready"), false},
		{"Invalid unknown", types.DatasetState("UNKNOWN"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.state.IsValid()
			if result != tt.expected {
				t.Errorf("DatasetState(%q).IsValid() = %v, want %v", tt.state, result, tt.expected)
			}
		})
	}
}

func TestDatasetStateIsReady(t *testing.T) {
	gt.True(t, types.DatasetStateReady.IsReady())
	gt.False(t, types.DatasetStateLoading.IsReady())
	gt.False(t, types.DatasetStateFailed.IsReady())
}

func TestNewDatasetID(t *testing.T) {
	id1 := types.NewDatasetID()
	id2 := types.NewDatasetID()

	gt.NotEqual(t, id1, id2)
	gt.Equal(t, len(id1.String()), 36)
}
