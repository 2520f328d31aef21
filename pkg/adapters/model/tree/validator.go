package tree

import (
	"fmt"
)

// Validate checks that an artifact is well-formed. A valid artifact can be
// evaluated without index errors and every walk terminates at a leaf.
func Validate(a *Artifact) error {
	if a == nil {
		return fmt.Errorf("artifact is nil")
	}

	// Check basic fields
	switch a.Kind {
	case KindDecisionTree:
		if len(a.Trees) != 1 {
			return fmt.Errorf("decision_tree must have exactly one tree, got %d", len(a.Trees))
		}
	case KindRandomForest:
		if len(a.Trees) == 0 {
			return fmt.Errorf("random_forest must have at least one tree")
		}
	default:
		return fmt.Errorf("unsupported artifact format: %q", a.Kind)
	}

	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("feature names are required")
	}

	if len(a.Classes) == 0 {
		return fmt.Errorf("classes are required")
	}

	// Check for duplicate feature names
	names := make(map[string]bool, len(a.FeatureNames))
	for _, name := range a.FeatureNames {
		if name == "" {
			return fmt.Errorf("feature name is empty")
		}
		if names[name] {
			return fmt.Errorf("duplicate feature name: %s", name)
		}
		names[name] = true
	}

	// Validate trees
	for i, t := range a.Trees {
		if err := validateTree(t, len(a.FeatureNames), len(a.Classes)); err != nil {
			return fmt.Errorf("invalid tree %d: %w", i, err)
		}
	}

	return nil
}

// validateTree validates a single tree
func validateTree(t Tree, numFeatures, numClasses int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}

	for i, node := range t.Nodes {
		if node.IsLeaf {
			if node.ClassIndex < 0 || node.ClassIndex >= numClasses {
				return fmt.Errorf("node %d: class index %d out of range", i, node.ClassIndex)
			}
			continue
		}

		if node.FeatureIdx < 0 || node.FeatureIdx >= numFeatures {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}

		// Children always come after their parent, so walks cannot cycle
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d: invalid child index %d", i, child)
			}
		}
	}

	return nil
}
