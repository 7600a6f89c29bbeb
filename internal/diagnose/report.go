package diagnose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flysky19/onnxcheck/internal/compat"
	"github.com/flysky19/onnxcheck/internal/onnx"
	"github.com/flysky19/onnxcheck/internal/ortprobe"
)

// Level classifies a finding.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) mark() string {
	switch l {
	case LevelWarn:
		return "⚠️"
	case LevelError:
		return "❌"
	default:
		return "✅"
	}
}

// Finding is one diagnostic statement about a model.
type Finding struct {
	Level   Level
	Message string
}

// Report is the full diagnostic result for one model file.
type Report struct {
	Path   string
	Name   string
	SizeMB float64

	Findings []Finding

	Info           *onnx.ModelInfo
	Runtime        *ortprobe.Result
	RuntimeSkipped bool
	Compat         *compat.Result
	ProfileName    string
}

func (r *Report) add(level Level, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Valid reports whether the model passed every check that could run.
func (r *Report) Valid() bool {
	for _, f := range r.Findings {
		if f.Level == LevelError {
			return false
		}
	}
	return true
}

// Render formats the report as the per-model diagnostic block.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n=== %s ===\n", r.Name)

	if r.SizeMB > 0 {
		fmt.Fprintf(&b, "File size: %.2f MB\n", r.SizeMB)
	}

	for _, f := range r.Findings {
		fmt.Fprintf(&b, "%s %s\n", f.Level.mark(), f.Message)
	}

	if r.Info != nil {
		r.renderInfo(&b)
	}
	if r.Runtime != nil {
		r.renderRuntime(&b)
	}
	if r.Compat != nil {
		r.renderCompat(&b)
	}
	return b.String()
}

func (r *Report) renderInfo(b *strings.Builder) {
	if r.Info.ProducerName != "" {
		fmt.Fprintf(b, "Producer: %s %s\n", r.Info.ProducerName, r.Info.ProducerVersion)
	}
	if r.Info.ModelVersion != 0 {
		fmt.Fprintf(b, "Model version: %d\n", r.Info.ModelVersion)
	}
	fmt.Fprintf(b, "IR version %d, opset %d\n", r.Info.IRVersion, r.Info.OpsetVersion)
	fmt.Fprintf(b, "Graph: %d nodes, %d initializers\n", r.Info.NodeCount, r.Info.WeightCount)

	if len(r.Info.Metadata) > 0 {
		keys := make([]string, 0, len(r.Info.Metadata))
		for key := range r.Info.Metadata {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fmt.Fprintf(b, "Metadata:\n")
		for _, key := range keys {
			fmt.Fprintf(b, "  %s: %s\n", key, r.Info.Metadata[key])
		}
	}

	fmt.Fprintf(b, "\n[Inputs]\n")
	for _, spec := range r.Info.Inputs {
		fmt.Fprintf(b, "  %s: %s %s\n", spec.Name, spec.ElemTypeName(), spec.Shape())
	}
	fmt.Fprintf(b, "\n[Outputs]\n")
	for _, spec := range r.Info.Outputs {
		fmt.Fprintf(b, "  %s: %s %s\n", spec.Name, spec.ElemTypeName(), spec.Shape())
	}
}

func (r *Report) renderRuntime(b *strings.Builder) {
	fmt.Fprintf(b, "\nRuntime session:\n")
	if r.Runtime.Producer != "" {
		fmt.Fprintf(b, "  producer: %s\n", r.Runtime.Producer)
	}
	if r.Runtime.Version != 0 {
		fmt.Fprintf(b, "  model version: %d\n", r.Runtime.Version)
	}
	if r.Runtime.Description != "" {
		fmt.Fprintf(b, "  description: %s\n", r.Runtime.Description)
	}
	for _, info := range r.Runtime.Inputs {
		fmt.Fprintf(b, "  input: %s %s (%s)\n", info.Name, info.Shape(), info.DataType)
	}
	for _, info := range r.Runtime.Outputs {
		fmt.Fprintf(b, "  output: %s %s (%s)\n", info.Name, info.Shape(), info.DataType)
	}
}

func (r *Report) renderCompat(b *strings.Builder) {
	name := r.ProfileName
	if name == "" {
		name = "consumer"
	}
	if r.Compat.Compatible {
		fmt.Fprintf(b, "%s compatibility: ✅\n", name)
		return
	}
	fmt.Fprintf(b, "%s compatibility: ❌\n", name)
	for _, reason := range r.Compat.Reasons {
		fmt.Fprintf(b, "  - %s\n", reason)
	}
}

// Summary aggregates a batch run.
type Summary struct {
	Reports        []*Report
	RuntimeSkipped bool
}

// ValidCount returns how many models passed.
func (s *Summary) ValidCount() int {
	n := 0
	for _, r := range s.Reports {
		if r.Valid() {
			n++
		}
	}
	return n
}

// AllValid reports whether every model passed.
func (s *Summary) AllValid() bool {
	return s.ValidCount() == len(s.Reports)
}

// Render formats the whole batch: every report block followed by the
// totals and, when something failed, remediation hints.
func (s *Summary) Render() string {
	var b strings.Builder
	for _, r := range s.Reports {
		b.WriteString(r.Render())
	}

	fmt.Fprintf(&b, "\n=== Results ===\n")
	fmt.Fprintf(&b, "%d of %d models valid\n", s.ValidCount(), len(s.Reports))

	if s.RuntimeSkipped {
		fmt.Fprintf(&b, "⚠️ ONNX Runtime unavailable; session checks were skipped\n")
	}

	if !s.AllValid() {
		fmt.Fprintf(&b, "\n⚠️ Some models have problems!\n")
		fmt.Fprintf(&b, "Suggested fixes:\n")
		fmt.Fprintf(&b, "  1. Re-export the model from its source checkpoint\n")
		fmt.Fprintf(&b, "  2. Try different export settings (static shapes, opset version)\n")
		fmt.Fprintf(&b, "  3. Download the official Ultralytics model\n")
	}
	return b.String()
}
