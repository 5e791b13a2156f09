package warehouse

import (
	"fmt"
	"strings"
	"testing"
)

func TestFormatBasic(t *testing.T) {
	r := &Result{
		Columns: []string{"id", "name", "active"},
		Rows: [][]string{
			{"1", "Alice", "true"},
			{"2", "Bob", "false"},
		},
	}
	got := r.Format(0)

	if !strings.Contains(got, "| id | name  | active |") {
		t.Errorf("missing header row:\n%s", got)
	}
	if !strings.Contains(got, "(2 rows)") {
		t.Errorf("missing row count:\n%s", got)
	}
}

func TestFormatSingleRow(t *testing.T) {
	r := &Result{Columns: []string{"x"}, Rows: [][]string{{"42"}}}
	if got := r.Format(0); !strings.Contains(got, "(1 row)") {
		t.Errorf("expected '(1 row)', got:\n%s", got)
	}
}

func TestFormatTruncation(t *testing.T) {
	r := &Result{Columns: []string{"n"}}
	for i := 0; i < 25; i++ {
		r.Rows = append(r.Rows, []string{fmt.Sprint(i)})
	}
	got := r.Format(10)

	if !strings.Contains(got, "... showing 10 of 25 rows") {
		t.Errorf("missing truncation notice:\n%s", got)
	}
	if strings.Contains(got, "| 10 ") {
		t.Errorf("row 11 should not be rendered:\n%s", got)
	}
}

func TestFormatLimitNotReached(t *testing.T) {
	r := &Result{Columns: []string{"n"}, Rows: [][]string{{"1"}, {"2"}}}
	got := r.Format(10)

	if strings.Contains(got, "showing") {
		t.Errorf("no truncation notice expected:\n%s", got)
	}
	if !strings.Contains(got, "(2 rows)") {
		t.Errorf("missing row count:\n%s", got)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Empty().Format(10); got != "(0 rows)\n" {
		t.Errorf("expected '(0 rows)\\n', got %q", got)
	}
}

func TestFormatNoRowsKeepsHeader(t *testing.T) {
	r := &Result{Columns: []string{"a", "b"}}
	got := r.Format(10)
	if !strings.Contains(got, "| a | b |") {
		t.Errorf("missing header:\n%s", got)
	}
	if !strings.Contains(got, "(0 rows)") {
		t.Errorf("missing row count:\n%s", got)
	}
}
