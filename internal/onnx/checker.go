package onnx

import (
	"fmt"
	"strings"
)

// CheckError aggregates every structural problem found in a model so a
// single run reports them all instead of stopping at the first.
type CheckError struct {
	Problems []string
}

func (e *CheckError) Error() string {
	switch len(e.Problems) {
	case 0:
		return "model check failed"
	case 1:
		return e.Problems[0]
	default:
		return fmt.Sprintf("%d problems: %s", len(e.Problems), strings.Join(e.Problems, "; "))
	}
}

// Check validates the structural integrity of a parsed model: the graph
// must exist, declare an opset, and every tensor reference must resolve.
// Returns nil when the model is structurally valid, otherwise a
// *CheckError listing every problem found.
func Check(model *ModelProto) error {
	c := &checker{}

	if model.IRVersion <= 0 {
		c.addf("model has no IR version")
	}
	if len(model.OpsetImport) == 0 {
		c.addf("model imports no operator set")
	}
	if model.Graph == nil {
		c.addf("model has no graph")
		return c.err()
	}

	c.checkGraph(model.Graph)
	return c.err()
}

type checker struct {
	problems []string
}

func (c *checker) addf(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

func (c *checker) err() error {
	if len(c.problems) == 0 {
		return nil
	}
	return &CheckError{Problems: c.problems}
}

//nolint:gocognit,gocyclo,cyclop // Each rule is one small block; splitting them obscures the pass.
func (c *checker) checkGraph(graph *GraphProto) {
	if len(graph.Outputs) == 0 {
		c.addf("graph %q has no outputs", graph.Name)
	}

	// Known value names: graph inputs, initializers, then node outputs
	// as they are produced.
	known := make(map[string]bool, len(graph.Inputs)+len(graph.Initializers))

	seen := make(map[string]bool, len(graph.Inputs))
	for i, input := range graph.Inputs {
		if input.Name == "" {
			c.addf("graph input #%d has no name", i)
			continue
		}
		if seen[input.Name] {
			c.addf("duplicate graph input %q", input.Name)
		}
		seen[input.Name] = true
		known[input.Name] = true
		if !hasTensorType(input) {
			c.addf("graph input %q has no tensor type", input.Name)
		}
	}

	seen = make(map[string]bool, len(graph.Initializers))
	for i, init := range graph.Initializers {
		if init.Name == "" {
			c.addf("initializer #%d has no name", i)
			continue
		}
		if seen[init.Name] {
			c.addf("duplicate initializer %q", init.Name)
		}
		seen[init.Name] = true
		known[init.Name] = true
		for _, dim := range init.Dims {
			if dim < 0 {
				c.addf("initializer %q has negative dimension %d", init.Name, dim)
				break
			}
		}
	}

	for i := range graph.Nodes {
		node := &graph.Nodes[i]
		label := node.Name
		if label == "" {
			label = fmt.Sprintf("#%d (%s)", i, node.OpType)
		}

		if node.OpType == "" {
			c.addf("node %s has no op_type", label)
		}
		if len(node.Outputs) == 0 {
			c.addf("node %s has no outputs", label)
		}

		for _, input := range node.Inputs {
			if input == "" {
				continue // omitted optional input
			}
			if !known[input] {
				c.addf("node %s references undefined input %q", label, input)
			}
		}
		for _, output := range node.Outputs {
			if output == "" {
				continue
			}
			known[output] = true
		}
	}

	for _, output := range graph.Outputs {
		if output.Name == "" {
			c.addf("graph output has no name")
			continue
		}
		if !known[output.Name] {
			c.addf("graph output %q is never produced", output.Name)
		}
		if !hasTensorType(output) {
			c.addf("graph output %q has no tensor type", output.Name)
		}
	}
}

func hasTensorType(vi ValueInfoProto) bool {
	return vi.Type != nil && vi.Type.TensorType != nil
}
