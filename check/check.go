// Package check is the public entry point for validating ONNX model
// files against a detection consumer's expectations.
//
// A single file:
//
//	report := check.File("Models/yolov8s.onnx", check.Options{})
//	fmt.Print(report.Render())
//
// A batch with runtime session probing:
//
//	opts := check.Options{}
//	if err := check.InitRuntime(""); err == nil {
//		opts.Probe = check.RuntimeProbe
//		defer check.ShutdownRuntime()
//	}
//	summary := check.Batch(paths, opts)
//	fmt.Print(summary.Render())
//
// The actual pipeline lives in the internal packages; this package only
// re-exports the pieces a caller needs.
package check

import (
	"github.com/flysky19/onnxcheck/internal/compat"
	"github.com/flysky19/onnxcheck/internal/diagnose"
	"github.com/flysky19/onnxcheck/internal/ortprobe"
)

// Options configures a diagnostic run.
type Options = diagnose.Options

// Report is the diagnostic result for one model file.
type Report = diagnose.Report

// Summary aggregates a batch run.
type Summary = diagnose.Summary

// Profile describes a consumer's input contract.
type Profile = compat.Profile

// DefaultProfile returns the YoloDotNet profile: input named "images",
// rank 4, fully static shape.
func DefaultProfile() Profile {
	return compat.Default()
}

// File diagnoses a single model file. The zero Options skips the
// runtime probe and enforces no compatibility profile fields, so most
// callers set Options.Profile (see DefaultProfile).
func File(path string, opts Options) *Report {
	return diagnose.File(path, opts)
}

// Batch diagnoses every path in order.
func Batch(paths []string, opts Options) *Summary {
	return diagnose.Batch(paths, opts)
}

// InitRuntime loads the onnxruntime shared library (empty path = env
// var or platform default). Callers that skip this run without session
// probing.
func InitRuntime(libraryPath string) error {
	return ortprobe.Init(libraryPath)
}

// ShutdownRuntime tears the runtime environment down.
func ShutdownRuntime() {
	ortprobe.Shutdown()
}

// RuntimeProbe is the real session probe, usable as Options.Probe once
// InitRuntime has succeeded.
func RuntimeProbe(path string) (*ortprobe.Result, error) {
	return ortprobe.Run(path)
}
