package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperifyio/gotimetable/internal/app"
	"github.com/hyperifyio/gotimetable/internal/prompt"
	"github.com/hyperifyio/gotimetable/internal/timetable"
)

const page = `<table><tbody><tr><td colspan="2">时间</td><td>星期一</td><td>星期二</td></tr>` +
	`<tr><td>上午</td><td>第1节</td><td align="Center" rowspan="2">Algorithms<br/>周一第1,2节{第3-17周|单周}<br/>Prof. Li<br/>Room 101</td>` +
	`<td>&nbsp;</td></tr></tbody></table>`

// Smoke test: run parses a saved page and writes the spreadsheet.
func TestRun_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.html")
	out := filepath.Join(dir, "out.xlsx")
	if err := os.WriteFile(in, []byte(page), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	cfg := app.Config{
		InputPath:  in,
		OutputXLSX: out,
		CacheDir:   filepath.Join(dir, "cache"),
		StoreDir:   filepath.Join(dir, "store"),
	}
	if err := run(context.Background(), cfg, nil); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Fatalf("expected output file, err=%v", err)
	}
}

func TestRun_StaticWeeks(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.html")
	weekly := `<table><tbody><tr><td colspan="2">时间</td><td>星期一</td></tr>` +
		`<tr><td>上午</td><td>第1节</td><td align="Center" rowspan="2">Databases<br/>周一第1,2节 3节/周<br/>Prof. Wang<br/>Room 7</td></tr></tbody></table>`
	if err := os.WriteFile(in, []byte(weekly), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	cfg := app.Config{InputPath: in, StoreDir: filepath.Join(dir, "store")}
	err := run(context.Background(), cfg, prompt.Static{Weeks: timetable.WeekRange{Start: 5, End: 16}})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
}

func TestRun_MissingInput(t *testing.T) {
	cfg := app.Config{InputPath: filepath.Join(t.TempDir(), "none.html")}
	if err := run(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for missing input")
	}
}

func TestExitCode_Policy(t *testing.T) {
	if got := exitCode(nil); got != exitOK {
		t.Fatalf("expected %d, got %d", exitOK, got)
	}
	if got := exitCode(fmt.Errorf("wrapped: %w", timetable.ErrUndefinedStructure)); got != exitParseError {
		t.Fatalf("expected %d for classified failure, got %d", exitParseError, got)
	}
	if got := exitCode(errors.New("disk full")); got != exitConfig {
		t.Fatalf("expected %d for other failures, got %d", exitConfig, got)
	}
}
