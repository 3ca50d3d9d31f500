// Command shadow_report renders the same analytics tables against both
// schema variants and reports every row-level difference. It is the
// migration parity check: once the new schema serves identical tables,
// the legacy one can be retired.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type target struct {
	Table    string            `json:"table"`
	Filters  map[string]string `json:"filters"`
	Critical bool              `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type tablePayload struct {
	Data struct {
		Name    string              `json:"name"`
		Columns []string            `json:"columns"`
		Rows    []map[string]string `json:"rows"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type comparison struct {
	Target      target
	OldStatus   int
	NewStatus   int
	StatusMatch bool
	RowsMatch   bool
	RowDiffs    []string
	Error       error
	DurationOld time.Duration
	DurationNew time.Duration
}

func main() {
	var (
		base        string
		token       string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "Analytics API base URL")
	flag.StringVar(&token, "token", os.Getenv("SHADOW_REPORT_TOKEN"), "Bearer token for the API")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_report", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		comparisons []comparison
		breaking    int
		optional    int
	)

	for _, t := range targets {
		comp := compareTarget(client, base, token, t)
		if comp.Error != nil || !comp.StatusMatch || !comp.RowsMatch {
			if t.Critical {
				breaking++
			} else {
				optional++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compareTarget(client *http.Client, base, token string, tgt target) comparison {
	comp := comparison{Target: tgt}

	oldPayload, oldStatus, oldDur, err := fetchTable(client, base, token, tgt, "old")
	comp.DurationOld = oldDur
	if err != nil {
		comp.Error = fmt.Errorf("old variant request failed: %w", err)
		return comp
	}
	newPayload, newStatus, newDur, err := fetchTable(client, base, token, tgt, "new")
	comp.DurationNew = newDur
	if err != nil {
		comp.Error = fmt.Errorf("new variant request failed: %w", err)
		return comp
	}

	comp.OldStatus = oldStatus
	comp.NewStatus = newStatus
	comp.StatusMatch = oldStatus == newStatus
	comp.RowsMatch, comp.RowDiffs = rowsEqual(oldPayload, newPayload)
	return comp
}

func fetchTable(client *http.Client, base, token string, tgt target, variant string) (*tablePayload, int, time.Duration, error) {
	values := url.Values{}
	values.Set("variant", variant)
	for k, v := range tgt.Filters {
		if v != "" {
			values.Set(k, v)
		}
	}
	endpoint := strings.TrimRight(base, "/") + "/api/v1/tables/" + url.PathEscape(tgt.Table) + "?" + values.Encode()

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, time.Since(start), err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, time.Since(start), err
	}

	payload := &tablePayload{}
	if err := json.Unmarshal(body, payload); err != nil {
		return nil, resp.StatusCode, time.Since(start), fmt.Errorf("decode response: %w", err)
	}
	return payload, resp.StatusCode, time.Since(start), nil
}

// rowsEqual compares the rendered rows cell by cell. Run-scoped meta is
// not part of the comparison; only columns and rows count.
func rowsEqual(a, b *tablePayload) (bool, []string) {
	var diffs []string

	if !reflect.DeepEqual(a.Data.Columns, b.Data.Columns) {
		diffs = append(diffs, fmt.Sprintf("columns differ: %v vs %v", a.Data.Columns, b.Data.Columns))
		return false, diffs
	}
	if len(a.Data.Rows) != len(b.Data.Rows) {
		diffs = append(diffs, fmt.Sprintf("row count differs: %d vs %d", len(a.Data.Rows), len(b.Data.Rows)))
		return false, diffs
	}
	for i := range a.Data.Rows {
		for _, col := range a.Data.Columns {
			if a.Data.Rows[i][col] != b.Data.Rows[i][col] {
				diffs = append(diffs, fmt.Sprintf("row %d column %q: %q vs %q", i, col, a.Data.Rows[i][col], b.Data.Rows[i][col]))
			}
		}
	}
	return len(diffs) == 0, diffs
}

func printReport(results []comparison) {
	fmt.Println("Shadow Report: old vs new schema")
	fmt.Println("================================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.RowsMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %v\n", status, res.Target.Table, res.Target.Filters)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Old: %d (%s), New: %d (%s)\n", res.OldStatus, res.DurationOld, res.NewStatus, res.DurationNew)
		for _, diff := range res.RowDiffs {
			fmt.Printf("  %s\n", diff)
		}
	}
}
