// README: Price table snapshot read from the reference source.
package pricing

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"

	"freight/internal/reference"
	"freight/internal/translit"
)

// Table is one consistent read of the price directions with city names
// in NFC, trimmed and capitalized the same way request names are.
type Table struct {
	From []string
	To   []string
}

type Store struct {
	src reference.Source
}

func NewStore(src reference.Source) *Store {
	return &Store{src: src}
}

func (s *Store) Snapshot(ctx context.Context) (Table, error) {
	rows, err := s.src.PriceTable(ctx)
	if err != nil {
		return Table{}, err
	}
	t := Table{
		From: make([]string, len(rows)),
		To:   make([]string, len(rows)),
	}
	for i, r := range rows {
		t.From[i] = canonicalName(r.From)
		t.To[i] = canonicalName(r.To)
	}
	return t, nil
}

func canonicalName(s string) string {
	return translit.Capitalize(strings.TrimSpace(norm.NFC.String(s)))
}
