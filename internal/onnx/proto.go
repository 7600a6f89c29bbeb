package onnx

// ONNX protobuf data structures (hand-written).
//
// Only the fields a validator inspects are modeled. Weight payloads are
// kept as raw bytes and never decoded.

// ModelProto represents an ONNX model file.
type ModelProto struct {
	IRVersion       int64               // IR version (e.g., 7, 8, 9)
	OpsetImport     []OperatorSetID     // Opset version(s)
	ProducerName    string              // Exporting framework (e.g., "pytorch")
	ProducerVersion string              // Exporter version
	Domain          string              // Model domain
	ModelVersion    int64               // Model version number
	DocString       string              // Model description
	Graph           *GraphProto         // Computation graph
	MetadataProps   []StringStringEntry // Key-value metadata
}

// Metadata returns metadata_props as a map.
func (m *ModelProto) Metadata() map[string]string {
	if len(m.MetadataProps) == 0 {
		return nil
	}
	props := make(map[string]string, len(m.MetadataProps))
	for _, e := range m.MetadataProps {
		props[e.Key] = e.Value
	}
	return props
}

// OpsetVersion returns the version of the default ONNX operator set,
// or 0 when the model declares none.
func (m *ModelProto) OpsetVersion() int64 {
	for _, opset := range m.OpsetImport {
		if opset.Domain == "" || opset.Domain == "ai.onnx" {
			return opset.Version
		}
	}
	return 0
}

// GraphProto represents the computation graph.
type GraphProto struct {
	Name         string           // Graph name
	Nodes        []NodeProto      // Operation nodes
	Inputs       []ValueInfoProto // Graph inputs
	Outputs      []ValueInfoProto // Graph outputs
	Initializers []TensorProto    // Weight tensors
	ValueInfo    []ValueInfoProto // Intermediate tensor info
}

// NodeProto represents a single operation.
type NodeProto struct {
	Name    string   // Node name (optional)
	OpType  string   // Operation type (e.g., "Conv", "Concat")
	Domain  string   // Custom domain (empty for default)
	Inputs  []string // Input tensor names ("" = omitted optional input)
	Outputs []string // Output tensor names
}

// TensorProto represents a weight tensor. The validator only needs the
// name, element type, and shape; payload fields are skipped entirely so
// a batch run never holds weight buffers in memory.
type TensorProto struct {
	Name     string  // Tensor name
	DataType int32   // Element data type
	Dims     []int64 // Tensor shape
}

// ValueInfoProto describes an input/output tensor specification.
type ValueInfoProto struct {
	Name string     // Tensor name
	Type *TypeProto // Tensor type information
}

// TypeProto describes a value's type.
type TypeProto struct {
	TensorType *TensorTypeProto // Tensor type (the only kind modeled)
}

// TensorTypeProto describes tensor element type and shape.
type TensorTypeProto struct {
	ElemType int32             // Element data type
	Shape    *TensorShapeProto // Tensor shape
}

// TensorShapeProto describes tensor dimensions.
type TensorShapeProto struct {
	Dims []DimensionProto
}

// DimensionProto is a single dimension: either a static value or a
// named dynamic parameter (e.g., "batch").
type DimensionProto struct {
	DimValue int64
	DimParam string
}

// Static reports whether the dimension has a fixed positive size.
func (d DimensionProto) Static() bool {
	return d.DimParam == "" && d.DimValue > 0
}

// OperatorSetID identifies an opset a model imports.
type OperatorSetID struct {
	Domain  string // Operator domain (empty for default)
	Version int64  // Opset version number
}

// StringStringEntry represents a key-value metadata pair.
type StringStringEntry struct {
	Key   string
	Value string
}

// ONNX element data types (TensorProto.DataType).
const (
	TensorProtoUndefined  = 0
	TensorProtoFloat      = 1 // float32
	TensorProtoUint8      = 2
	TensorProtoInt8       = 3
	TensorProtoUint16     = 4
	TensorProtoInt16      = 5
	TensorProtoInt32      = 6
	TensorProtoInt64      = 7
	TensorProtoString     = 8
	TensorProtoBool       = 9
	TensorProtoFloat16    = 10
	TensorProtoDouble     = 11 // float64
	TensorProtoUint32     = 12
	TensorProtoUint64     = 13
	TensorProtoComplex64  = 14
	TensorProtoComplex128 = 15
	TensorProtoBfloat16   = 16
)

var dataTypeNames = map[int32]string{
	TensorProtoUndefined:  "undefined",
	TensorProtoFloat:      "float32",
	TensorProtoUint8:      "uint8",
	TensorProtoInt8:       "int8",
	TensorProtoUint16:     "uint16",
	TensorProtoInt16:      "int16",
	TensorProtoInt32:      "int32",
	TensorProtoInt64:      "int64",
	TensorProtoString:     "string",
	TensorProtoBool:       "bool",
	TensorProtoFloat16:    "float16",
	TensorProtoDouble:     "float64",
	TensorProtoUint32:     "uint32",
	TensorProtoUint64:     "uint64",
	TensorProtoComplex64:  "complex64",
	TensorProtoComplex128: "complex128",
	TensorProtoBfloat16:   "bfloat16",
}

// DataTypeName returns a human-readable name for an ONNX element type.
func DataTypeName(dtype int32) string {
	if name, ok := dataTypeNames[dtype]; ok {
		return name
	}
	return "unknown"
}
