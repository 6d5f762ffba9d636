// README: Pricing types: encoded direction, quote, and module errors.
package pricing

import (
	"errors"

	"freight/internal/types"
)

var (
	ErrUnknownCategory   = errors.New("pricing: city not in price table")
	ErrPredictionFailure = errors.New("pricing: prediction failed")
)

// Direction is an origin/destination pair after label encoding.
type Direction struct {
	From     string
	To       string
	FromCode int
	ToCode   int
}

type Quote struct {
	Direction Direction
	Price     types.Money
}
