package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClassifier(t *testing.T) {
	t.Run("tree", func(t *testing.T) {
		c, err := NewClassifier(&Config{
			Format: FormatTree,
			Path:   "tree/testdata/iris_tree.json",
			Logger: zap.NewNop(),
		})
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := NewClassifier(&Config{Format: "joblib", Path: "model.joblib"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported model format")
	})
}
