// README: Artifact schema and ml sentinel errors.
package ml

import "errors"

const (
	KindLinear = "linear"
	KindForest = "forest"
)

var (
	ErrFeatureCount = errors.New("ml: feature count mismatch")
	ErrBadArtifact  = errors.New("ml: malformed model artifact")
)

// Artifact is the on-disk JSON form of an exported model.
type Artifact struct {
	// Kind selects the model family: "linear" or "forest".
	Kind string `json:"kind"`

	// NFeatures is the number of input columns the model was fit on.
	NFeatures int `json:"n_features"`

	// Intercept and Coefficients describe a linear model.
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`

	// Trees is the forest; the prediction is the mean of all tree outputs.
	Trees []TreeArtifact `json:"trees,omitempty"`
}

// TreeArtifact mirrors the parallel arrays of a fitted regression tree.
// A node is a leaf when ChildrenLeft[i] == -1.
type TreeArtifact struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}
