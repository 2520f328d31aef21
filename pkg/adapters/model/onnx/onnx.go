package onnx

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/23f3001208/iris-classifier/pkg/domain"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

// The runtime environment is process-wide and can be set up only once, so
// every classifier shares the library path of the first one loaded.
var ortRuntime struct {
	once sync.Once
	err  error
}

func initRuntime(libPath string) error {
	ortRuntime.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortRuntime.err = ort.InitializeEnvironment()
	})
	return ortRuntime.err
}

// Classifier runs an ONNX classifier with a single float input of shape
// [batch, features] and an int64 label output, as exported by skl2onnx.
type Classifier struct {
	session     *ort.DynamicAdvancedSession
	inputName   string
	outputName  string
	numFeatures int64
}

// Load opens the model at modelPath. When libPath is empty the runtime
// library is expected next to the model as libonnxruntime.so.
func Load(modelPath, libPath string, logger *zap.Logger) (*Classifier, error) {
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}

	if err := initRuntime(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}

	inputName, numFeatures, err := selectInput(inputs)
	if err != nil {
		return nil, err
	}

	outputName, err := selectLabelOutput(outputs)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputName},
		[]string{outputName},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	if logger != nil {
		logger.Info("onnx model opened",
			zap.String("input", inputName),
			zap.String("output", outputName),
			zap.Int64("features", numFeatures))
	}

	return &Classifier{
		session:     session,
		inputName:   inputName,
		outputName:  outputName,
		numFeatures: numFeatures,
	}, nil
}

// selectInput requires exactly one float tensor input of shape [batch, n]
func selectInput(inputs []ort.InputOutputInfo) (string, int64, error) {
	if len(inputs) != 1 {
		return "", 0, fmt.Errorf("onnx: expected one input, got %d", len(inputs))
	}
	in := inputs[0]
	if in.DataType != ort.TensorElementDataTypeFloat {
		return "", 0, fmt.Errorf("onnx: input %q must be float, got %v", in.Name, in.DataType)
	}
	if len(in.Dimensions) != 2 {
		return "", 0, fmt.Errorf("onnx: input %q must be 2D, got %v", in.Name, in.Dimensions)
	}
	return in.Name, in.Dimensions[1], nil
}

// selectLabelOutput picks the int64 label tensor among the model outputs
func selectLabelOutput(outputs []ort.InputOutputInfo) (string, error) {
	for _, out := range outputs {
		if out.OrtValueType == ort.ONNXTypeTensor && out.DataType == ort.TensorElementDataTypeInt64 {
			return out.Name, nil
		}
	}
	return "", fmt.Errorf("onnx: model has no int64 label output")
}

// Predict runs the frame through the session and returns int64 labels
func (c *Classifier) Predict(ctx context.Context, frame *domain.Frame) ([]domain.Label, error) {
	if frame == nil || len(frame.Rows) == 0 {
		return nil, fmt.Errorf("onnx: empty frame")
	}

	data := make([]float32, 0, len(frame.Rows)*len(frame.Columns))
	for i, row := range frame.Rows {
		if c.numFeatures > 0 && int64(len(row)) != c.numFeatures {
			return nil, fmt.Errorf("onnx: row %d has %d values, expected %d", i, len(row), c.numFeatures)
		}
		for _, v := range row {
			data = append(data, float32(v))
		}
	}

	input, err := ort.NewTensor(ort.NewShape(int64(len(frame.Rows)), int64(len(frame.Rows[0]))), data)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer input.Destroy()

	// A nil output is allocated by the runtime
	outputs := []ort.Value{nil}
	if err := c.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}
	defer outputs[0].Destroy()

	tensor, ok := outputs[0].(*ort.Tensor[int64])
	if !ok {
		return nil, fmt.Errorf("onnx: unexpected output type %T", outputs[0])
	}

	src := tensor.GetData()
	labels := make([]domain.Label, len(src))
	for i, v := range src {
		labels[i] = v
	}
	return labels, nil
}

// Close releases the ONNX session
func (c *Classifier) Close() error {
	return c.session.Destroy()
}
