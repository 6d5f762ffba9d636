// README: Request parsing: presence check first, then numeric parsing.
package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawRequest carries the four parameters as received. An empty value counts
// as missing.
type RawRequest struct {
	From   string
	To     string
	Weight string
	Volume string
}

type Request struct {
	Origin      string
	Destination string
	Weight      float64
	Volume      float64
}

func Parse(raw RawRequest) (Request, error) {
	if raw.From == "" || raw.To == "" || raw.Weight == "" || raw.Volume == "" {
		return Request{}, fail(StageParseRequest, ErrMissingParameters, msgMissingParameters, nil)
	}
	weight, err := parseNumber(raw.Weight)
	if err != nil {
		return Request{}, fail(StageParseRequest, ErrInvalidNumericParameter, msgInvalidNumeric, err)
	}
	volume, err := parseNumber(raw.Volume)
	if err != nil {
		return Request{}, fail(StageParseRequest, ErrInvalidNumericParameter, msgInvalidNumeric, err)
	}
	return Request{Origin: raw.From, Destination: raw.To, Weight: weight, Volume: volume}, nil
}

func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}
