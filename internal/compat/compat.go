// Package compat evaluates a model's input contract against the
// expectations of a downstream detection consumer.
package compat

import "fmt"

// Profile describes what a consumer requires of a model's primary input.
// The zero value is not useful; use Default or load one from config.
type Profile struct {
	// Name identifies the profile in reports.
	Name string
	// InputName is the required name of the first model input.
	InputName string
	// Rank is the required input rank (NCHW image input = 4).
	Rank int
	// AllowDynamicBatch permits a dynamic leading dimension; all other
	// dimensions must still be static.
	AllowDynamicBatch bool
}

// Default returns the YoloDotNet profile: an input named "images" with a
// fully static rank-4 shape.
func Default() Profile {
	return Profile{
		Name:      "YoloDotNet",
		InputName: "images",
		Rank:      4,
	}
}

// Input is the consumer-facing view of a model input. Dims use the
// runtime convention: values <= 0 mean dynamic.
type Input struct {
	Name string
	Dims []int64
}

// Result is a compatibility verdict with per-rule failure reasons.
type Result struct {
	Compatible bool
	Reasons    []string
}

// Evaluate checks the model's first input against the profile. Models
// without inputs are never compatible.
func Evaluate(profile Profile, inputs []Input) Result {
	if len(inputs) == 0 {
		return Result{Reasons: []string{"model has no inputs"}}
	}

	input := inputs[0]
	var reasons []string

	if input.Name != profile.InputName {
		reasons = append(reasons, fmt.Sprintf("input name is %q, expected %q",
			input.Name, profile.InputName))
	}
	if len(input.Dims) != profile.Rank {
		reasons = append(reasons, fmt.Sprintf("input rank is %d, expected %d",
			len(input.Dims), profile.Rank))
	}
	for i, dim := range input.Dims {
		if dim > 0 {
			continue
		}
		if i == 0 && profile.AllowDynamicBatch {
			continue
		}
		reasons = append(reasons, fmt.Sprintf("dimension %d is dynamic, expected a static size", i))
	}

	return Result{Compatible: len(reasons) == 0, Reasons: reasons}
}
