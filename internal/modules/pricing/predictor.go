// README: Price predictor: regressor call plus the thousands padding of the result.
package pricing

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"freight/internal/ml"
)

// maxUnits is the largest truncated model output that survives the "000" padding.
const maxUnits = math.MaxInt64 / 1000

type Predictor struct {
	model ml.Regressor
}

func NewPredictor(model ml.Regressor) *Predictor {
	return &Predictor{model: model}
}

// Predict returns the price for an encoded direction. The model output is
// truncated toward zero and "000" is appended to its decimal digits, so the
// model is expected to emit prices in thousands.
func (p *Predictor) Predict(ctx context.Context, fromCode, toCode int) (int64, error) {
	raw, err := p.model.Predict(ctx, []float64{float64(fromCode), float64(toCode)})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPredictionFailure, err)
	}
	return padThousands(raw)
}

func padThousands(raw float64) (int64, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("%w: model returned %v", ErrPredictionFailure, raw)
	}
	units := math.Trunc(raw)
	if units < 0 {
		units = 0
	}
	if units > maxUnits {
		return 0, fmt.Errorf("%w: model output %g out of range", ErrPredictionFailure, raw)
	}
	price, err := strconv.ParseInt(strconv.FormatInt(int64(units), 10)+"000", 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPredictionFailure, err)
	}
	return price, nil
}
