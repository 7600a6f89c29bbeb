// Package onnx reads ONNX model files for validation purposes.
//
// It contains a minimal hand-written protobuf wire-format decoder for the
// subset of the ONNX schema a validator needs (model/graph structure,
// tensor specifications, opsets, metadata), a structural checker, and a
// metadata extractor. Weight payloads are never decoded and no operator
// is ever executed; runtime behavior is probed separately through ONNX
// Runtime.
package onnx
