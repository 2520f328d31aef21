package domain

// Column names of the iris feature frame, in the order the model expects them.
const (
	ColumnSepalLength = "sepal_length"
	ColumnSepalWidth  = "sepal_width"
	ColumnPetalLength = "petal_length"
	ColumnPetalWidth  = "petal_width"
)

// FeatureColumns is the fixed column order of every frame built from Features.
var FeatureColumns = []string{
	ColumnSepalLength,
	ColumnSepalWidth,
	ColumnPetalLength,
	ColumnPetalWidth,
}

// Label is a predicted class. Its concrete type depends on the model:
// a string for named classes, a number for encoded ones.
type Label = any

// Features is a validated prediction input
type Features struct {
	SepalLength float64 `json:"sepal_length"`
	SepalWidth  float64 `json:"sepal_width"`
	PetalLength float64 `json:"petal_length"`
	PetalWidth  float64 `json:"petal_width"`
}

// Frame returns the features as a single-row frame in FeatureColumns order
func (f Features) Frame() *Frame {
	columns := make([]string, len(FeatureColumns))
	copy(columns, FeatureColumns)

	return &Frame{
		Columns: columns,
		Rows: [][]float64{
			{f.SepalLength, f.SepalWidth, f.PetalLength, f.PetalWidth},
		},
	}
}

// Frame is a small tabular structure of named float columns
type Frame struct {
	Columns []string
	Rows    [][]float64
}

// Prediction is the result of a successful prediction
type Prediction struct {
	PredictedClass Label   `json:"predicted_class"`
	LatencyMs      float64 `json:"latency_ms"`
	TraceID        string  `json:"trace_id"`
}
