// README: Common money value object used across modules.
package types

import "strconv"

// DefaultCurrency is the currency reference prices are quoted in.
const DefaultCurrency = "UZS"

type Money struct {
	Amount   int64
	Currency string
}

func (m Money) String() string {
	return strconv.FormatInt(m.Amount, 10) + " " + m.Currency
}
