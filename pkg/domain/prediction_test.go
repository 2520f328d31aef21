package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeaturesFrame(t *testing.T) {
	f := Features{SepalLength: 5.1, SepalWidth: 3.5, PetalLength: 1.4, PetalWidth: 0.2}

	frame := f.Frame()

	assert.Equal(t, []string{"sepal_length", "sepal_width", "petal_length", "petal_width"}, frame.Columns)
	assert.Equal(t, [][]float64{{5.1, 3.5, 1.4, 0.2}}, frame.Rows)

	// Mutating the frame must not leak into the shared column list
	frame.Columns[0] = "changed"
	assert.Equal(t, ColumnSepalLength, FeatureColumns[0])
}
