package onnx

import (
	"fmt"
	"strings"
)

// TensorSpec describes one graph input or output.
type TensorSpec struct {
	Name     string
	ElemType int32
	Dims     []DimensionProto
}

// Shape renders the tensor shape in the [1, 3, 640, 640] form, with
// dynamic dimensions shown by their parameter name or "dynamic".
func (s TensorSpec) Shape() string {
	parts := make([]string, len(s.Dims))
	for i, dim := range s.Dims {
		switch {
		case dim.Static():
			parts[i] = fmt.Sprintf("%d", dim.DimValue)
		case dim.DimParam != "":
			parts[i] = dim.DimParam
		default:
			parts[i] = "dynamic"
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Rank returns the number of dimensions.
func (s TensorSpec) Rank() int {
	return len(s.Dims)
}

// StaticDims reports whether every dimension is static and positive.
func (s TensorSpec) StaticDims() bool {
	for _, dim := range s.Dims {
		if !dim.Static() {
			return false
		}
	}
	return true
}

// ElemTypeName returns the element type as a readable name.
func (s TensorSpec) ElemTypeName() string {
	return DataTypeName(s.ElemType)
}

// ModelInfo contains the metadata a diagnostic run reports about a model,
// extracted without executing anything.
type ModelInfo struct {
	IRVersion       int64
	OpsetVersion    int64
	ProducerName    string
	ProducerVersion string
	ModelVersion    int64
	GraphName       string
	NodeCount       int
	WeightCount     int
	Inputs          []TensorSpec
	Outputs         []TensorSpec
	Metadata        map[string]string
}

// Info extracts diagnostic metadata from a parsed model. Inputs that are
// backed by initializers (weights exported as inputs, common in older
// IR versions) are excluded from the input list.
func Info(model *ModelProto) *ModelInfo {
	info := &ModelInfo{
		IRVersion:       model.IRVersion,
		OpsetVersion:    model.OpsetVersion(),
		ProducerName:    model.ProducerName,
		ProducerVersion: model.ProducerVersion,
		ModelVersion:    model.ModelVersion,
		Metadata:        model.Metadata(),
	}

	graph := model.Graph
	if graph == nil {
		return info
	}

	info.GraphName = graph.Name
	info.NodeCount = len(graph.Nodes)
	info.WeightCount = len(graph.Initializers)

	initNames := make(map[string]bool, len(graph.Initializers))
	for i := range graph.Initializers {
		initNames[graph.Initializers[i].Name] = true
	}

	for i := range graph.Inputs {
		if initNames[graph.Inputs[i].Name] {
			continue
		}
		info.Inputs = append(info.Inputs, tensorSpec(graph.Inputs[i]))
	}
	for i := range graph.Outputs {
		info.Outputs = append(info.Outputs, tensorSpec(graph.Outputs[i]))
	}

	return info
}

func tensorSpec(vi ValueInfoProto) TensorSpec {
	spec := TensorSpec{Name: vi.Name}
	if vi.Type == nil || vi.Type.TensorType == nil {
		return spec
	}
	tt := vi.Type.TensorType
	spec.ElemType = tt.ElemType
	if tt.Shape != nil {
		spec.Dims = tt.Shape.Dims
	}
	return spec
}
