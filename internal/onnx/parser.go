package onnx

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ParseFile parses an ONNX model from a file.
//
//nolint:gosec // G304: Path is provided by user, reading the model file is the point.
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse parses an ONNX model from bytes.
func Parse(data []byte) (*ModelProto, error) {
	p := &parser{data: data}
	model := &ModelProto{}
	if err := p.readModelProto(model); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	return model, nil
}

// parser implements a minimal protobuf wire format decoder.
type parser struct {
	data []byte
	pos  int
}

// Protobuf wire types.
const (
	wireVarint = 0 // int32, int64, bool, enum
	wire64Bit  = 1 // fixed64, double
	wireBytes  = 2 // string, bytes, embedded messages, packed repeated
	wire32Bit  = 5 // fixed32, float
)

// sub returns a parser over an embedded length-delimited message.
func (p *parser) sub() (*parser, error) {
	data, err := p.readBytes()
	if err != nil {
		return nil, err
	}
	return &parser{data: data}, nil
}

// readString reads a length-delimited string field.
func (p *parser) readString() (string, error) {
	data, err := p.readBytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

//nolint:gocognit,gocyclo,cyclop // Protobuf parsing requires field-by-field switch logic.
func (p *parser) readModelProto(m *ModelProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // ir_version
			m.IRVersion, err = p.readVarint()
		case 2: // producer_name
			m.ProducerName, err = p.readString()
		case 3: // producer_version
			m.ProducerVersion, err = p.readString()
		case 4: // domain
			m.Domain, err = p.readString()
		case 5: // model_version
			m.ModelVersion, err = p.readVarint()
		case 6: // doc_string
			m.DocString, err = p.readString()
		case 7: // graph
			var sub *parser
			sub, err = p.sub()
			if err != nil {
				return err
			}
			m.Graph = &GraphProto{}
			err = sub.readGraphProto(m.Graph)
		case 8: // opset_import
			var sub *parser
			sub, err = p.sub()
			if err != nil {
				return err
			}
			opset := OperatorSetID{}
			if err = sub.readOperatorSetID(&opset); err == nil {
				m.OpsetImport = append(m.OpsetImport, opset)
			}
		case 14: // metadata_props
			var sub *parser
			sub, err = p.sub()
			if err != nil {
				return err
			}
			entry := StringStringEntry{}
			if err = sub.readStringStringEntry(&entry); err == nil {
				m.MetadataProps = append(m.MetadataProps, entry)
			}
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

//nolint:gocognit,gocyclo,cyclop // Protobuf parsing requires field-by-field switch logic.
func (p *parser) readGraphProto(m *GraphProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // node
			var sub *parser
			sub, err = p.sub()
			if err != nil {
				return err
			}
			node := NodeProto{}
			if err = sub.readNodeProto(&node); err == nil {
				m.Nodes = append(m.Nodes, node)
			}
		case 2: // name
			m.Name, err = p.readString()
		case 5: // initializer
			var sub *parser
			sub, err = p.sub()
			if err != nil {
				return err
			}
			tensor := TensorProto{}
			if err = sub.readTensorProto(&tensor); err == nil {
				m.Initializers = append(m.Initializers, tensor)
			}
		case 11: // input
			err = p.appendValueInfo(&m.Inputs)
		case 12: // output
			err = p.appendValueInfo(&m.Outputs)
		case 13: // value_info
			err = p.appendValueInfo(&m.ValueInfo)
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) appendValueInfo(dst *[]ValueInfoProto) error {
	sub, err := p.sub()
	if err != nil {
		return err
	}
	vi := ValueInfoProto{}
	if err := sub.readValueInfoProto(&vi); err != nil {
		return err
	}
	*dst = append(*dst, vi)
	return nil
}

func (p *parser) readNodeProto(m *NodeProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // input
			var s string
			if s, err = p.readString(); err == nil {
				m.Inputs = append(m.Inputs, s)
			}
		case 2: // output
			var s string
			if s, err = p.readString(); err == nil {
				m.Outputs = append(m.Outputs, s)
			}
		case 3: // name
			m.Name, err = p.readString()
		case 4: // op_type
			m.OpType, err = p.readString()
		case 7: // domain
			m.Domain, err = p.readString()
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readTensorProto(m *TensorProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // dims (repeated int64, possibly packed)
			if wireType == wireBytes {
				var sub *parser
				sub, err = p.sub()
				if err != nil {
					return err
				}
				for sub.pos < len(sub.data) {
					v, verr := sub.readVarint()
					if verr != nil {
						break
					}
					m.Dims = append(m.Dims, v)
				}
			} else {
				var v int64
				if v, err = p.readVarint(); err == nil {
					m.Dims = append(m.Dims, v)
				}
			}
		case 2: // data_type
			m.DataType, err = p.readInt32()
		case 8: // name
			m.Name, err = p.readString()
		default:
			// Payload fields (raw_data, float_data, ...) are skipped.
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readValueInfoProto(m *ValueInfoProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // name
			m.Name, err = p.readString()
		case 2: // type
			var sub *parser
			sub, err = p.sub()
			if err != nil {
				return err
			}
			m.Type = &TypeProto{}
			err = sub.readTypeProto(m.Type)
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readTypeProto(m *TypeProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // tensor_type
			var sub *parser
			sub, err = p.sub()
			if err != nil {
				return err
			}
			m.TensorType = &TensorTypeProto{}
			err = sub.readTensorTypeProto(m.TensorType)
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readTensorTypeProto(m *TensorTypeProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // elem_type
			m.ElemType, err = p.readInt32()
		case 2: // shape
			var sub *parser
			sub, err = p.sub()
			if err != nil {
				return err
			}
			m.Shape = &TensorShapeProto{}
			err = sub.readTensorShapeProto(m.Shape)
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readTensorShapeProto(m *TensorShapeProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // dim
			var sub *parser
			sub, err = p.sub()
			if err != nil {
				return err
			}
			dim := DimensionProto{}
			if err = sub.readDimensionProto(&dim); err == nil {
				m.Dims = append(m.Dims, dim)
			}
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readDimensionProto(m *DimensionProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // dim_value
			m.DimValue, err = p.readVarint()
		case 2: // dim_param
			m.DimParam, err = p.readString()
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readOperatorSetID(m *OperatorSetID) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // domain
			m.Domain, err = p.readString()
		case 2: // version
			m.Version, err = p.readVarint()
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readStringStringEntry(m *StringStringEntry) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // key
			m.Key, err = p.readString()
		case 2: // value
			m.Value, err = p.readString()
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

// readTag reads a protobuf field tag.
func (p *parser) readTag() (fieldNum, wireType int, err error) {
	if p.pos >= len(p.data) {
		return 0, 0, io.EOF
	}
	tag, err := p.readVarint()
	if err != nil {
		return 0, 0, err
	}
	return int(tag >> 3), int(tag & 0x7), nil
}

// readVarint reads a varint-encoded int64.
func (p *parser) readVarint() (int64, error) {
	var result uint64
	var shift uint
	for {
		if p.pos >= len(p.data) {
			return 0, io.EOF
		}
		b := p.data[p.pos]
		p.pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, errors.New("varint overflow")
		}
	}
	return int64(result), nil //nolint:gosec // G115: Protobuf varint fits in int64.
}

// readInt32 reads a varint-encoded int32.
func (p *parser) readInt32() (int32, error) {
	v, err := p.readVarint()
	if err != nil {
		return 0, err
	}
	return int32(v), nil //nolint:gosec // G115: Protobuf varint fits in int32.
}

// readBytes reads a length-delimited byte slice.
func (p *parser) readBytes() ([]byte, error) {
	length, err := p.readVarint()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, errors.New("negative length")
	}
	end := p.pos + int(length)
	if end > len(p.data) || end < p.pos {
		return nil, io.ErrUnexpectedEOF
	}
	result := p.data[p.pos:end]
	p.pos = end
	return result, nil
}

// skipField skips a field based on wire type.
func (p *parser) skipField(wireType int) error {
	switch wireType {
	case wireVarint:
		_, err := p.readVarint()
		return err
	case wire64Bit:
		if p.pos+8 > len(p.data) {
			return io.ErrUnexpectedEOF
		}
		p.pos += 8
		return nil
	case wireBytes:
		_, err := p.readBytes()
		return err
	case wire32Bit:
		if p.pos+4 > len(p.data) {
			return io.ErrUnexpectedEOF
		}
		p.pos += 4
		return nil
	default:
		return fmt.Errorf("unknown wire type: %d", wireType)
	}
}
