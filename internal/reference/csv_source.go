// README: Reference tables read from a directory of CSV exports, re-read on every call.
package reference

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"freight/internal/types"
)

// CSVSource reads <dir>/<table>.csv with a header row. Column lookup is by name,
// extra columns are ignored.
type CSVSource struct {
	dir string
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

func (s *CSVSource) Dir() string { return s.dir }

func (s *CSVSource) PriceTable(ctx context.Context) ([]PriceRow, error) {
	t, err := s.read(ctx, PriceTableName)
	if err != nil {
		return nil, err
	}
	from, err := t.col("From")
	if err != nil {
		return nil, err
	}
	to, err := t.col("To")
	if err != nil {
		return nil, err
	}
	// The price column name varies between exports; take the first other column.
	price := -1
	for i := range t.header {
		if i != from && i != to {
			price = i
			break
		}
	}

	rows := make([]PriceRow, 0, len(t.rows))
	for _, r := range t.rows {
		rows = append(rows, PriceRow{
			From:  field(r, from),
			To:    field(r, to),
			Price: field(r, price),
		})
	}
	return rows, nil
}

func (s *CSVSource) DriverLocations(ctx context.Context) ([]DriverLocation, error) {
	t, err := s.read(ctx, DriverLocationsName)
	if err != nil {
		return nil, err
	}
	idx, err := t.cols("user_id", "latitude", "longitude")
	if err != nil {
		return nil, err
	}
	out := make([]DriverLocation, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, DriverLocation{
			UserID:    types.ID(field(r, idx[0])),
			Latitude:  parseCoord(field(r, idx[1])),
			Longitude: parseCoord(field(r, idx[2])),
		})
	}
	return out, nil
}

func (s *CSVSource) Vehicles(ctx context.Context) ([]Vehicle, error) {
	t, err := s.read(ctx, VehiclesName)
	if err != nil {
		return nil, err
	}
	idx, err := t.cols("user_id", "transport_model", "transport_weight", "transport_volume")
	if err != nil {
		return nil, err
	}
	out := make([]Vehicle, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, Vehicle{
			UserID: types.ID(field(r, idx[0])),
			Model:  field(r, idx[1]),
			Weight: field(r, idx[2]),
			Volume: field(r, idx[3]),
		})
	}
	return out, nil
}

func (s *CSVSource) Users(ctx context.Context) ([]User, error) {
	t, err := s.read(ctx, UsersName)
	if err != nil {
		return nil, err
	}
	idx, err := t.cols("user_id", "fullname", "phone", "status")
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, User{
			UserID:   types.ID(field(r, idx[0])),
			FullName: field(r, idx[1]),
			Phone:    field(r, idx[2]),
			Status:   field(r, idx[3]),
		})
	}
	return out, nil
}

type csvTable struct {
	name   string
	header []string
	rows   [][]string
}

func (s *CSVSource) read(ctx context.Context, name string) (*csvTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: empty file", ErrUnavailable, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, name, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &csvTable{name: name, header: header}
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, name, err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func (t *csvTable) col(name string) (int, error) {
	for i, h := range t.header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s: missing column %q", ErrUnavailable, t.name, name)
}

func (t *csvTable) cols(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		c, err := t.col(n)
		if err != nil {
			return nil, err
		}
		idx[i] = c
	}
	return idx, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func parseCoord(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
