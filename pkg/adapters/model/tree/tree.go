package tree

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/23f3001208/iris-classifier/pkg/domain"
)

// Classifier evaluates a validated tree artifact. It is immutable after Load
// and safe for concurrent use.
type Classifier struct {
	artifact *Artifact
}

// Load reads, decodes and validates the artifact at path
func Load(path string) (*Classifier, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}

	return New(&artifact)
}

// New creates a classifier from an in-memory artifact
func New(artifact *Artifact) (*Classifier, error) {
	if err := Validate(artifact); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	return &Classifier{artifact: artifact}, nil
}

// FeatureNames returns the columns the model was trained on
func (c *Classifier) FeatureNames() []string {
	names := make([]string, len(c.artifact.FeatureNames))
	copy(names, c.artifact.FeatureNames)
	return names
}

// Predict returns the majority-vote class of every row in the frame
func (c *Classifier) Predict(ctx context.Context, frame *domain.Frame) ([]domain.Label, error) {
	if frame == nil {
		return nil, fmt.Errorf("frame is nil")
	}
	if err := c.checkColumns(frame.Columns); err != nil {
		return nil, err
	}

	labels := make([]domain.Label, 0, len(frame.Rows))
	votes := make([]int, len(c.artifact.Classes))

	for i, row := range frame.Rows {
		if len(row) != len(c.artifact.FeatureNames) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(c.artifact.FeatureNames))
		}

		for k := range votes {
			votes[k] = 0
		}
		for _, t := range c.artifact.Trees {
			votes[walk(t, row)]++
		}

		labels = append(labels, c.artifact.Classes[argmax(votes)])
	}

	return labels, nil
}

// Close is a no-op; the artifact lives in memory
func (c *Classifier) Close() error {
	return nil
}

// checkColumns rejects frames whose columns differ from the training features
func (c *Classifier) checkColumns(columns []string) error {
	expected := c.artifact.FeatureNames
	if len(columns) != len(expected) {
		return fmt.Errorf("frame has %d columns, model expects %d", len(columns), len(expected))
	}
	for i := range expected {
		if columns[i] != expected[i] {
			return fmt.Errorf("feature names mismatch at column %d: got %q, expected %q", i, columns[i], expected[i])
		}
	}
	return nil
}

// walk returns the class index of the leaf the row lands in
func walk(t Tree, row []float64) int {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.IsLeaf {
			return node.ClassIndex
		}
		if row[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

// argmax returns the index of the largest count, preferring the lowest index on ties
func argmax(counts []int) int {
	best := 0
	for i, n := range counts {
		if n > counts[best] {
			best = i
		}
	}
	return best
}
