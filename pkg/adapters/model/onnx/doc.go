// Package onnx runs ONNX classifiers through ONNX Runtime.
//
// The runtime shared library is loaded once per process. Sessions are safe
// for concurrent Run calls.
package onnx
