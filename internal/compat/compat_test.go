package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		profile    Profile
		inputs     []Input
		compatible bool
		reasons    int
	}{
		{
			name:       "yolov8 static export",
			profile:    Default(),
			inputs:     []Input{{Name: "images", Dims: []int64{1, 3, 640, 640}}},
			compatible: true,
		},
		{
			name:       "wrong input name",
			profile:    Default(),
			inputs:     []Input{{Name: "input0", Dims: []int64{1, 3, 640, 640}}},
			compatible: false,
			reasons:    1,
		},
		{
			name:       "wrong rank",
			profile:    Default(),
			inputs:     []Input{{Name: "images", Dims: []int64{3, 640, 640}}},
			compatible: false,
			reasons:    1,
		},
		{
			name:       "dynamic batch rejected by default",
			profile:    Default(),
			inputs:     []Input{{Name: "images", Dims: []int64{-1, 3, 640, 640}}},
			compatible: false,
			reasons:    1,
		},
		{
			name: "dynamic batch allowed by profile",
			profile: Profile{
				Name: "YoloDotNet", InputName: "images", Rank: 4,
				AllowDynamicBatch: true,
			},
			inputs:     []Input{{Name: "images", Dims: []int64{-1, 3, 640, 640}}},
			compatible: true,
		},
		{
			name: "dynamic spatial dim never allowed",
			profile: Profile{
				Name: "YoloDotNet", InputName: "images", Rank: 4,
				AllowDynamicBatch: true,
			},
			inputs:     []Input{{Name: "images", Dims: []int64{-1, 3, -1, 640}}},
			compatible: false,
			reasons:    1,
		},
		{
			name:       "everything wrong at once",
			profile:    Default(),
			inputs:     []Input{{Name: "x", Dims: []int64{-1, 3}}},
			compatible: false,
			reasons:    3, // name, rank, dynamic dim
		},
		{
			name:       "no inputs",
			profile:    Default(),
			inputs:     nil,
			compatible: false,
			reasons:    1,
		},
		{
			name:    "only first input judged",
			profile: Default(),
			inputs: []Input{
				{Name: "images", Dims: []int64{1, 3, 640, 640}},
				{Name: "scale_factor", Dims: []int64{-1, 2}},
			},
			compatible: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.profile, tt.inputs)
			assert.Equal(t, tt.compatible, result.Compatible)
			assert.Len(t, result.Reasons, tt.reasons)
		})
	}
}

func TestDefaultProfile(t *testing.T) {
	profile := Default()
	assert.Equal(t, "YoloDotNet", profile.Name)
	assert.Equal(t, "images", profile.InputName)
	assert.Equal(t, 4, profile.Rank)
	assert.False(t, profile.AllowDynamicBatch)
}
