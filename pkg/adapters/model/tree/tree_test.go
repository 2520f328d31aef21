package tree

import (
	"context"
	"sync"
	"testing"

	"github.com/23f3001208/iris-classifier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("decision tree", func(t *testing.T) {
		c, err := Load("testdata/iris_tree.json")
		require.NoError(t, err)
		assert.Equal(t, domain.FeatureColumns, c.FeatureNames())
		assert.NoError(t, c.Close())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("testdata/does_not_exist.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read model artifact")
	})

	t.Run("corrupt file", func(t *testing.T) {
		_, err := Load("testdata/corrupt.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode model artifact")
	})
}

func TestPredictDecisionTree(t *testing.T) {
	c, err := Load("testdata/iris_tree.json")
	require.NoError(t, err)

	tests := []struct {
		name     string
		features domain.Features
		want     domain.Label
	}{
		{"setosa", domain.Features{SepalLength: 5.1, SepalWidth: 3.5, PetalLength: 1.4, PetalWidth: 0.2}, "setosa"},
		{"versicolor", domain.Features{SepalLength: 6.0, SepalWidth: 2.9, PetalLength: 4.5, PetalWidth: 1.5}, "versicolor"},
		{"virginica by petal width", domain.Features{SepalLength: 6.3, SepalWidth: 3.3, PetalLength: 6.0, PetalWidth: 2.5}, "virginica"},
		{"virginica by petal length", domain.Features{SepalLength: 6.0, SepalWidth: 2.2, PetalLength: 5.0, PetalWidth: 1.5}, "virginica"},
		{"threshold goes left", domain.Features{PetalLength: 2.45}, "setosa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels, err := c.Predict(context.Background(), tt.features.Frame())
			require.NoError(t, err)
			require.Len(t, labels, 1)
			assert.Equal(t, tt.want, labels[0])
		})
	}
}

func TestPredictRandomForest(t *testing.T) {
	c, err := Load("testdata/iris_forest.json")
	require.NoError(t, err)

	// Trees vote versicolor, versicolor, virginica
	frame := domain.Features{SepalLength: 6.0, SepalWidth: 2.9, PetalLength: 4.5, PetalWidth: 1.5}.Frame()
	labels, err := c.Predict(context.Background(), frame)
	require.NoError(t, err)
	assert.Equal(t, []domain.Label{float64(1)}, labels)
}

func TestPredictTieGoesToLowestClass(t *testing.T) {
	leaf := func(class int) Tree {
		return Tree{Nodes: []Node{{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassIndex: class, IsLeaf: true}}}
	}
	c, err := New(&Artifact{
		Kind:         KindRandomForest,
		FeatureNames: []string{"x"},
		Classes:      []domain.Label{"a", "b", "c"},
		Trees:        []Tree{leaf(2), leaf(1)},
	})
	require.NoError(t, err)

	labels, err := c.Predict(context.Background(), &domain.Frame{Columns: []string{"x"}, Rows: [][]float64{{0}}})
	require.NoError(t, err)
	assert.Equal(t, []domain.Label{"b"}, labels)
}

func TestPredictRejectsMalformedFrames(t *testing.T) {
	c, err := Load("testdata/iris_tree.json")
	require.NoError(t, err)

	t.Run("nil frame", func(t *testing.T) {
		_, err := c.Predict(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("wrong column order", func(t *testing.T) {
		frame := &domain.Frame{
			Columns: []string{"sepal_width", "sepal_length", "petal_length", "petal_width"},
			Rows:    [][]float64{{1, 2, 3, 4}},
		}
		_, err := c.Predict(context.Background(), frame)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "feature names mismatch")
	})

	t.Run("missing column", func(t *testing.T) {
		frame := &domain.Frame{
			Columns: []string{"sepal_length", "sepal_width", "petal_length"},
			Rows:    [][]float64{{1, 2, 3}},
		}
		_, err := c.Predict(context.Background(), frame)
		assert.Error(t, err)
	})

	t.Run("short row", func(t *testing.T) {
		frame := &domain.Frame{
			Columns: domain.FeatureColumns,
			Rows:    [][]float64{{1, 2}},
		}
		_, err := c.Predict(context.Background(), frame)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 0 has 2 values")
	})
}

func TestPredictConcurrent(t *testing.T) {
	c, err := Load("testdata/iris_forest.json")
	require.NoError(t, err)

	frame := domain.Features{SepalLength: 5.1, SepalWidth: 3.5, PetalLength: 1.4, PetalWidth: 0.2}.Frame()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			labels, err := c.Predict(context.Background(), frame)
			assert.NoError(t, err)
			assert.Equal(t, []domain.Label{float64(0)}, labels)
		}()
	}
	wg.Wait()
}
