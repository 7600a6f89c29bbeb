// Package diagnose runs the per-model validation pipeline: file checks,
// structural parsing, metadata extraction, runtime session probing, and
// consumer compatibility.
package diagnose

import (
	"os"
	"path/filepath"

	"github.com/flysky19/onnxcheck/internal/compat"
	"github.com/flysky19/onnxcheck/internal/onnx"
	"github.com/flysky19/onnxcheck/internal/ortprobe"
)

// ProbeFunc instantiates a runtime session for a model file. It exists
// so tests can substitute the real ONNX Runtime.
type ProbeFunc func(path string) (*ortprobe.Result, error)

// Options configures a diagnostic run.
type Options struct {
	// Profile is the compatibility profile to enforce.
	Profile compat.Profile
	// Probe runs the runtime session check. Nil means the runtime is
	// unavailable and session checks are skipped.
	Probe ProbeFunc
}

// File diagnoses a single model file.
func File(path string, opts Options) *Report {
	report := &Report{
		Path:        path,
		Name:        filepath.Base(path),
		ProfileName: opts.Profile.Name,
	}

	stat, err := os.Stat(path)
	if err != nil {
		report.add(LevelError, "file does not exist")
		return report
	}
	report.SizeMB = float64(stat.Size()) / (1024 * 1024)

	// A parse failure skips the structural stages but not the runtime
	// probe: the runtime is the authoritative loader for files this
	// parser cannot handle (external-data models, newer encodings).
	model, err := onnx.ParseFile(path)
	if err != nil {
		report.add(LevelError, "ONNX parse failed: %v", err)
	} else {
		checkStructure(report, model)
		report.Info = onnx.Info(model)
	}

	runProbe(report, opts)
	evaluateCompat(report, opts.Profile)
	return report
}

func checkStructure(report *Report, model *onnx.ModelProto) {
	err := onnx.Check(model)
	if err == nil {
		report.add(LevelInfo, "model structure valid")
		return
	}
	if checkErr, ok := err.(*onnx.CheckError); ok {
		for _, problem := range checkErr.Problems {
			report.add(LevelError, "structure: %s", problem)
		}
		return
	}
	report.add(LevelError, "structure: %v", err)
}

func runProbe(report *Report, opts Options) {
	if opts.Probe == nil {
		report.RuntimeSkipped = true
		report.add(LevelWarn, "runtime session check skipped (ONNX Runtime unavailable)")
		return
	}

	result, err := opts.Probe(report.Path)
	if err != nil {
		report.add(LevelError, "runtime session failed: %v", err)
		return
	}
	report.Runtime = result
	report.add(LevelInfo, "runtime session created")
}

// evaluateCompat prefers the runtime's view of the inputs; when the
// probe did not run, the parsed graph inputs are used instead.
func evaluateCompat(report *Report, profile compat.Profile) {
	var inputs []compat.Input
	switch {
	case report.Runtime != nil:
		for _, info := range report.Runtime.Inputs {
			inputs = append(inputs, compat.Input{Name: info.Name, Dims: info.Dims})
		}
	case report.Info != nil:
		for _, spec := range report.Info.Inputs {
			inputs = append(inputs, compat.Input{Name: spec.Name, Dims: specDims(spec)})
		}
	default:
		return
	}

	result := compat.Evaluate(profile, inputs)
	report.Compat = &result
	if !result.Compatible {
		report.add(LevelError, "not compatible with %s", profile.Name)
	}
}

// specDims converts parsed dims to the runtime convention: dynamic
// dimensions become -1.
func specDims(spec onnx.TensorSpec) []int64 {
	dims := make([]int64, len(spec.Dims))
	for i, dim := range spec.Dims {
		if dim.Static() {
			dims[i] = dim.DimValue
		} else {
			dims[i] = -1
		}
	}
	return dims
}

// Batch diagnoses every path in order and aggregates the results.
func Batch(paths []string, opts Options) *Summary {
	summary := &Summary{RuntimeSkipped: opts.Probe == nil}
	for _, path := range paths {
		summary.Reports = append(summary.Reports, File(path, opts))
	}
	return summary
}
