package tree

import (
	"github.com/23f3001208/iris-classifier/pkg/domain"
)

// Ensemble kinds accepted in an artifact
const (
	KindDecisionTree = "decision_tree"
	KindRandomForest = "random_forest"
)

// Artifact is the on-disk JSON form of a tree model
type Artifact struct {
	Kind         string         `json:"format"`
	FeatureNames []string       `json:"feature_names"`
	Classes      []domain.Label `json:"classes"`
	Trees        []Tree         `json:"trees"`
}

// Tree is a flat array of nodes; node 0 is the root
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split or a leaf. Rows go to LeftChild when
// row[FeatureIdx] <= Threshold.
type Node struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassIndex int     `json:"class_index"`
	IsLeaf     bool    `json:"is_leaf"`
}
