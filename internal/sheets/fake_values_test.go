package sheets

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
)

var cellRef = regexp.MustCompile(`^(?:'[^']*'|[^!]+)!([A-Z]+)(\d+)?(?::([A-Z]+)(\d+)?)?$`)

// fakeValues is an in-memory sheet. rows[0] is the header row.
type fakeValues struct {
	mu        sync.Mutex
	rows      [][]interface{}
	ranges    []string
	appends   int
	gets      int
	updates   int
	failGet   error
	failAfter int // fail the Nth update (1-based), 0 = never
}

func newFakeValues() *fakeValues {
	return &fakeValues{rows: [][]interface{}{{"id", "company_name"}}}
}

func (f *fakeValues) Append(_ context.Context, rng string, rows [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends++
	f.ranges = append(f.ranges, rng)
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeValues) Get(_ context.Context, rng string) ([][]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	f.ranges = append(f.ranges, rng)
	if f.failGet != nil {
		return nil, f.failGet
	}
	m := cellRef.FindStringSubmatch(rng)
	start := 1
	if m != nil && m[2] != "" {
		start, _ = strconv.Atoi(m[2])
	}
	var out [][]interface{}
	for i := start - 1; i < len(f.rows); i++ {
		out = append(out, append([]interface{}(nil), f.rows[i]...))
	}
	return out, nil
}

func (f *fakeValues) Update(_ context.Context, rng string, rows [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.ranges = append(f.ranges, rng)
	if f.failAfter > 0 && f.updates == f.failAfter {
		return errors.New("quota exceeded")
	}
	m := cellRef.FindStringSubmatch(rng)
	if m == nil || m[2] == "" {
		return errors.New("bad range " + rng)
	}
	col := 0
	for _, c := range m[1] {
		col = col*26 + int(c-'A'+1)
	}
	col--
	row, _ := strconv.Atoi(m[2])
	for len(f.rows) < row {
		f.rows = append(f.rows, nil)
	}
	r := f.rows[row-1]
	for len(r) <= col {
		r = append(r, "")
	}
	r[col] = rows[0][0]
	f.rows[row-1] = r
	return nil
}
