// README: Regressor contract the price predictor depends on.
package ml

import (
	"context"
)

// Regressor defines the contract for a pre-trained numeric model.
// Implementations are loaded once and must be safe for concurrent use.
type Regressor interface {
	// Predict returns the model output for a single feature row.
	Predict(ctx context.Context, features []float64) (float64, error)
}
