package model

import (
	"fmt"

	"github.com/23f3001208/iris-classifier/pkg/adapters/model/onnx"
	"github.com/23f3001208/iris-classifier/pkg/adapters/model/tree"
	"github.com/23f3001208/iris-classifier/pkg/ports"
	"go.uber.org/zap"
)

// Supported artifact formats
const (
	FormatTree = "tree"
	FormatONNX = "onnx"
)

// Config holds classifier loading configuration
type Config struct {
	Format          string
	Path            string
	ONNXLibraryPath string
	Logger          *zap.Logger
}

// NewClassifier loads the model artifact at cfg.Path in the given format
func NewClassifier(cfg *Config) (ports.Classifier, error) {
	switch cfg.Format {
	case FormatTree:
		return tree.Load(cfg.Path)
	case FormatONNX:
		return onnx.Load(cfg.Path, cfg.ONNXLibraryPath, cfg.Logger)
	default:
		return nil, fmt.Errorf("unsupported model format: %s", cfg.Format)
	}
}
