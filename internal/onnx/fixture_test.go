package onnx

// Hand-encoded protobuf fixtures. Test models are built directly in wire
// format so the parser is exercised against real bytes without shipping
// binary testdata.

// wireBuf builds protobuf messages field by field.
type wireBuf struct {
	data []byte
}

func (b *wireBuf) tag(fieldNum, wireType int) {
	b.varint(int64(fieldNum<<3 | wireType))
}

func (b *wireBuf) varint(v int64) {
	for v >= 0x80 {
		b.data = append(b.data, byte(v)|0x80)
		v >>= 7
	}
	b.data = append(b.data, byte(v))
}

func (b *wireBuf) bytes(data []byte) {
	b.varint(int64(len(data)))
	b.data = append(b.data, data...)
}

func (b *wireBuf) writeString(fieldNum int, s string) {
	b.tag(fieldNum, wireBytes)
	b.bytes([]byte(s))
}

func (b *wireBuf) writeInt(fieldNum int, v int64) {
	b.tag(fieldNum, wireVarint)
	b.varint(v)
}

func (b *wireBuf) writeMsg(fieldNum int, sub *wireBuf) {
	b.tag(fieldNum, wireBytes)
	b.bytes(sub.data)
}

// buildYoloLikeModel encodes a minimal detection-shaped model:
// output0 = Conv(images, W), static [1, 3, 640, 640] input.
func buildYoloLikeModel() []byte {
	model := &wireBuf{}
	model.writeInt(1, 8)                   // ir_version
	model.writeString(2, "pytorch")        // producer_name
	model.writeString(3, "2.1.0")          // producer_version
	model.writeInt(5, 1)                   // model_version
	model.writeMsg(7, buildYoloGraph(nil)) // graph

	opset := &wireBuf{}
	opset.writeString(1, "")
	opset.writeInt(2, 17)
	model.writeMsg(8, opset)

	meta := &wireBuf{}
	meta.writeString(1, "task")
	meta.writeString(2, "detect")
	model.writeMsg(14, meta)

	return model.data
}

// buildDynamicBatchModel is the same graph with a parameterized batch dim.
func buildDynamicBatchModel() []byte {
	model := &wireBuf{}
	model.writeInt(1, 8)
	model.writeMsg(7, buildYoloGraph([]string{"batch", "", "", ""}))

	opset := &wireBuf{}
	opset.writeInt(2, 17)
	model.writeMsg(8, opset)

	return model.data
}

// buildYoloGraph encodes the graph. dimParams, when non-nil, replaces
// static input dims with named dynamic parameters ("" keeps static).
func buildYoloGraph(dimParams []string) *wireBuf {
	graph := &wireBuf{}

	node := &wireBuf{}
	node.writeString(1, "images")  // input
	node.writeString(1, "W")       // input
	node.writeString(2, "output0") // output
	node.writeString(3, "conv0")   // name
	node.writeString(4, "Conv")    // op_type
	graph.writeMsg(1, node)

	graph.writeString(2, "main_graph")

	graph.writeMsg(5, buildWeight("W", []int64{16, 3, 3, 3}))

	graph.writeMsg(11, buildValueInfo("images", TensorProtoFloat, []int64{1, 3, 640, 640}, dimParams))
	graph.writeMsg(12, buildValueInfo("output0", TensorProtoFloat, []int64{1, 84, 8400}, nil))

	return graph
}

func buildValueInfo(name string, dtype int32, dims []int64, dimParams []string) *wireBuf {
	shape := &wireBuf{}
	for i, dim := range dims {
		d := &wireBuf{}
		if dimParams != nil && i < len(dimParams) && dimParams[i] != "" {
			d.writeString(2, dimParams[i]) // dim_param
		} else {
			d.writeInt(1, dim) // dim_value
		}
		shape.writeMsg(1, d)
	}

	tensorType := &wireBuf{}
	tensorType.writeInt(1, int64(dtype))
	tensorType.writeMsg(2, shape)

	typ := &wireBuf{}
	typ.writeMsg(1, tensorType)

	vi := &wireBuf{}
	vi.writeString(1, name)
	vi.writeMsg(2, typ)
	return vi
}

// buildWeight writes the raw_data payload before the name field; wire
// format allows any field order, and this proves the parser skips the
// payload without losing its place.
func buildWeight(name string, dims []int64) *wireBuf {
	tensor := &wireBuf{}
	size := int64(4)
	for _, dim := range dims {
		tensor.writeInt(1, dim)
		size *= dim
	}
	tensor.writeInt(2, TensorProtoFloat)
	tensor.tag(9, wireBytes)
	tensor.bytes(make([]byte, size))
	tensor.writeString(8, name)
	return tensor
}
