// README: Label encoding of price-table city columns.
package pricing

import (
	"fmt"
	"sort"
)

// Encoding maps each distinct value of one column to its rank in sorted order.
type Encoding struct {
	codes  map[string]int
	values []string
}

// BuildEncoding assigns codes 0..n-1 to the distinct values, ordered by
// byte-wise string comparison. Duplicates share a code.
func BuildEncoding(values []string) *Encoding {
	seen := make(map[string]struct{}, len(values))
	uniq := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	sort.Strings(uniq)

	codes := make(map[string]int, len(uniq))
	for i, v := range uniq {
		codes[v] = i
	}
	return &Encoding{codes: codes, values: uniq}
}

func (e *Encoding) Encode(v string) (int, error) {
	code, ok := e.codes[v]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, v)
	}
	return code, nil
}

// Len is the number of distinct values.
func (e *Encoding) Len() int { return len(e.values) }

// Values returns the distinct values in code order.
func (e *Encoding) Values() []string {
	out := make([]string, len(e.values))
	copy(out, e.values)
	return out
}
