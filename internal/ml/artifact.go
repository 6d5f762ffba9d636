// README: JSON artifact loading and in-process linear/forest evaluation.
package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadFile reads a JSON model artifact from path and returns a ready Regressor.
func LoadFile(path string) (Regressor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses and validates a model artifact.
func Decode(r io.Reader) (Regressor, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	return FromArtifact(a)
}

func FromArtifact(a Artifact) (Regressor, error) {
	switch a.Kind {
	case KindLinear:
		if len(a.Coefficients) == 0 {
			return nil, fmt.Errorf("%w: linear model without coefficients", ErrBadArtifact)
		}
		if a.NFeatures != 0 && a.NFeatures != len(a.Coefficients) {
			return nil, fmt.Errorf("%w: n_features=%d but %d coefficients", ErrBadArtifact, a.NFeatures, len(a.Coefficients))
		}
		return &linearModel{intercept: a.Intercept, coef: a.Coefficients}, nil
	case KindForest:
		if len(a.Trees) == 0 {
			return nil, fmt.Errorf("%w: forest without trees", ErrBadArtifact)
		}
		for i, t := range a.Trees {
			if err := validateTree(t, a.NFeatures); err != nil {
				return nil, fmt.Errorf("%w: tree %d: %v", ErrBadArtifact, i, err)
			}
		}
		return &forestModel{nFeatures: a.NFeatures, trees: a.Trees}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrBadArtifact, a.Kind)
	}
}

type linearModel struct {
	intercept float64
	coef      []float64
}

func (m *linearModel) Predict(_ context.Context, features []float64) (float64, error) {
	if len(features) != len(m.coef) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(features), len(m.coef))
	}
	y := m.intercept
	for i, x := range features {
		y += m.coef[i] * x
	}
	return y, nil
}

type forestModel struct {
	nFeatures int
	trees     []TreeArtifact
}

func (m *forestModel) Predict(_ context.Context, features []float64) (float64, error) {
	if m.nFeatures != 0 && len(features) != m.nFeatures {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(features), m.nFeatures)
	}
	var sum float64
	for _, t := range m.trees {
		v, err := evalTree(t, features)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(m.trees)), nil
}

// evalTree walks from the root; x[feature] <= threshold goes left.
func evalTree(t TreeArtifact, x []float64) (float64, error) {
	node := 0
	for steps := 0; steps <= len(t.Value); steps++ {
		left := t.ChildrenLeft[node]
		if left == -1 {
			return t.Value[node], nil
		}
		f := t.Feature[node]
		if f < 0 || f >= len(x) {
			return 0, fmt.Errorf("%w: split on feature %d with %d inputs", ErrFeatureCount, f, len(x))
		}
		if x[f] <= t.Threshold[node] {
			node = left
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return 0, fmt.Errorf("%w: tree does not terminate", ErrBadArtifact)
}

func validateTree(t TreeArtifact, nFeatures int) error {
	n := len(t.Value)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.ChildrenLeft) != n || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n {
		return fmt.Errorf("node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == -1 {
			continue
		}
		if l <= i || r <= i || l >= n || r >= n {
			return fmt.Errorf("node %d has children (%d, %d) out of order", i, l, r)
		}
		if nFeatures != 0 && (t.Feature[i] < 0 || t.Feature[i] >= nFeatures) {
			return fmt.Errorf("node %d splits on feature %d", i, t.Feature[i])
		}
	}
	return nil
}
