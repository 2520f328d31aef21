// Package model provides classifier implementations.
//
// The factory creates a classifier based on the configured artifact format.
// Currently supports:
//   - tree: JSON decision tree / random forest artifacts
//   - onnx: ONNX classifiers run through ONNX Runtime
package model
