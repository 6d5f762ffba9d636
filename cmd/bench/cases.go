// README: Benchmark cases for the quote API plus reference-table and cache checks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPending = "PENDING"
	StatusSkip    = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) predictURL(params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return r.cfg.BaseURL + "/api/predict?" + q.Encode()
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	full := map[string]string{"from": r.cfg.From, "to": r.cfg.To, "weight": "500", "volume": "2"}

	return []TestCase{
		httpCase("Home route answers", http.MethodGet, base+"/", nil, []int{200}, nil),
		httpCase("Health check", http.MethodGet, base+"/health", nil, []int{200}, nil),
		httpCase("Missing volume rejected", http.MethodGet,
			r.predictURL(map[string]string{"from": r.cfg.From, "to": r.cfg.To, "weight": "500"}), nil, []int{400}, nil),
		httpCase("Non-numeric weight rejected", http.MethodGet,
			r.predictURL(map[string]string{"from": r.cfg.From, "to": r.cfg.To, "weight": "abc", "volume": "2"}), nil, []int{400}, nil),
		httpCase("Unknown city rejected", http.MethodGet,
			r.predictURL(map[string]string{"from": "Atlantis", "to": r.cfg.To, "weight": "500", "volume": "2"}), nil, []int{400}, nil),
		// 400 here means the server has no geocoding key and cannot locate the origin
		quoteCase("Quote via GET", http.MethodGet, r.predictURL(full), nil),
		quoteCase("Quote via POST", http.MethodPost, base+"/api/predict", map[string]any{
			"from": r.cfg.From, "to": r.cfg.To, "weight": 500, "volume": 2,
		}),
		{
			Name:  "Reference tables exist",
			Focus: "DB",
			Run:   referenceTables,
		},
		{
			Name:  "Geocode cache reachable",
			Focus: "Redis",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "no redis configured"}
				}
				start := time.Now()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				n, err := r.redis.Keys(ctx, "geocode:*").Result()
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass, Latency: time.Since(start), Note: fmt.Sprintf("cached_places=%d", len(n))}
			},
		},
		{
			Name:  "Quote load",
			Focus: "Performance",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, r.predictURL(full))
			},
		},
	}
}

func httpCase(name, method, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			code, _, latency, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			return classify(code, latency, okStatuses, pendingStatuses, "")
		},
	}
}

func quoteCase(name, method, url string, body any) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			code, raw, latency, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			if code != http.StatusOK {
				return classify(code, latency, nil, []int{400}, string(raw))
			}
			var resp struct {
				PredictedPrice int64             `json:"predicted_price"`
				Drivers        []json.RawMessage `json:"drivers"`
			}
			if err := json.Unmarshal(raw, &resp); err != nil {
				return Result{Status: StatusFail, Latency: latency, Note: "decode: " + err.Error()}
			}
			if resp.PredictedPrice%1000 != 0 || len(resp.Drivers) > 5 {
				return Result{Status: StatusFail, Latency: latency, Note: string(raw)}
			}
			return Result{Status: StatusPass, Latency: latency,
				Note: fmt.Sprintf("price=%d drivers=%d", resp.PredictedPrice, len(resp.Drivers))}
		},
	}
}

func classify(code int, latency time.Duration, ok, pending []int, extra string) Result {
	note := fmt.Sprintf("status=%d", code)
	if extra != "" {
		note += " " + strings.TrimSpace(extra)
	}
	switch {
	case slices.Contains(ok, code):
		return Result{Status: StatusPass, Latency: latency, Note: note}
	case slices.Contains(pending, code):
		return Result{Status: StatusPending, Latency: latency, Note: note}
	}
	return Result{Status: StatusFail, Latency: latency, Note: note}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	return resp.StatusCode, raw, time.Since(start), nil
}

func referenceTables(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "no database configured"}
	}
	if r.cfg.ApplyMigration {
		b, err := os.ReadFile(r.cfg.MigrationPath)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		for _, stmt := range splitSQL(string(b)) {
			if _, err := r.db.Exec(ctx, stmt); err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
		}
	}
	tables, err := extractTables(r.cfg.MigrationPath)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	var missing []string
	for _, t := range tables {
		var reg *string
		if err := r.db.QueryRow(ctx, "SELECT to_regclass($1)::text", t).Scan(&reg); err != nil || reg == nil {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return Result{Status: StatusFail, Note: "missing " + strings.Join(missing, ",")}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("tables=%d", len(tables))}
}

func perfLoad(ctx context.Context, r *Runner, url string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var (
		mu        sync.Mutex
		latencies []time.Duration
		errCount  int
		statuses  = map[int]int{}
	)
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				code, _, latency, err := r.do(ctx, http.MethodGet, url, nil)
				mu.Lock()
				if err != nil {
					errCount++
				} else {
					latencies = append(latencies, latency)
					statuses[code]++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(latencies) == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	rps := float64(len(latencies)) / r.cfg.Duration.Seconds()
	return Result{
		Status:  StatusPass,
		Latency: percentile(latencies, 0.50),
		Note: fmt.Sprintf("rps=%.1f p95=%s p99=%s errors=%d statuses=%v",
			rps, percentile(latencies, 0.95), percentile(latencies, 0.99), errCount, statuses),
	}
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	i := int(float64(len(sorted)-1) * p)
	return sorted[i]
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	cleaned := strings.Join(filtered, "\n")
	parts := strings.Split(cleaned, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
