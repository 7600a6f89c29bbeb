package diagnose

// Minimal ONNX protobuf encoder for test fixtures: a one-node detection
// graph (output0 = Identity(images)) with a static or dynamic batch dim.

type pbuf struct {
	data []byte
}

func (b *pbuf) varint(v int64) {
	for v >= 0x80 {
		b.data = append(b.data, byte(v)|0x80)
		v >>= 7
	}
	b.data = append(b.data, byte(v))
}

func (b *pbuf) field(num int, payload []byte) {
	b.varint(int64(num<<3 | 2)) // wire type 2: length-delimited
	b.varint(int64(len(payload)))
	b.data = append(b.data, payload...)
}

func (b *pbuf) str(num int, s string) {
	b.field(num, []byte(s))
}

func (b *pbuf) int(num int, v int64) {
	b.varint(int64(num << 3)) // wire type 0: varint
	b.varint(v)
}

func encodeDetectModel(dynamicBatch bool) []byte {
	node := &pbuf{}
	node.str(1, "images")   // input
	node.str(2, "output0")  // output
	node.str(4, "Identity") // op_type

	graph := &pbuf{}
	graph.field(1, node.data)
	graph.str(2, "main_graph")
	graph.field(11, valueInfo("images", []int64{1, 3, 640, 640}, dynamicBatch).data)
	graph.field(12, valueInfo("output0", []int64{1, 84, 8400}, false).data)

	opset := &pbuf{}
	opset.int(2, 17)

	meta := &pbuf{}
	meta.str(1, "task")
	meta.str(2, "detect")

	model := &pbuf{}
	model.int(1, 8) // ir_version
	model.str(2, "pytorch")
	model.str(3, "2.1.0")
	model.field(7, graph.data)
	model.field(8, opset.data)
	model.field(14, meta.data) // metadata_props
	return model.data
}

func valueInfo(name string, dims []int64, dynamicBatch bool) *pbuf {
	shape := &pbuf{}
	for i, v := range dims {
		dim := &pbuf{}
		if i == 0 && dynamicBatch {
			dim.str(2, "batch") // dim_param
		} else {
			dim.int(1, v) // dim_value
		}
		shape.field(1, dim.data)
	}

	tensorType := &pbuf{}
	tensorType.int(1, 1) // elem_type: float32
	tensorType.field(2, shape.data)

	typ := &pbuf{}
	typ.field(1, tensorType.data)

	vi := &pbuf{}
	vi.str(1, name)
	vi.field(2, typ.data)
	return vi
}
