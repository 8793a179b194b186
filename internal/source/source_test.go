package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

func TestClassify_Sentinels(t *testing.T) {
	if _, err := Classify(NoClipData); !errors.Is(err, timetable.ErrNoClipboardData) {
		t.Fatalf("expected ErrNoClipboardData, got %v", err)
	}
	if _, err := Classify(""); !errors.Is(err, timetable.ErrNoClipboardData) {
		t.Fatalf("expected ErrNoClipboardData for empty, got %v", err)
	}
	if _, err := Classify(NoHTML); !errors.Is(err, timetable.ErrNoHTMLContent) {
		t.Fatalf("expected ErrNoHTMLContent, got %v", err)
	}
	if _, err := Classify("just some words"); !errors.Is(err, timetable.ErrNoHTMLContent) {
		t.Fatalf("expected ErrNoHTMLContent for plain text, got %v", err)
	}
	if got, err := Classify("<table></table>"); err != nil || got != "<table></table>" {
		t.Fatalf("unexpected %q %v", got, err)
	}
}

func TestFile_DecodesGBK(t *testing.T) {
	page := `<html><head><meta charset="gbk"></head><body><table><tr><td>星期一</td></tr></table></body></html>`
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(page)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := File{Path: path}.Markup(context.Background())
	if err != nil {
		t.Fatalf("markup: %v", err)
	}
	if !strings.Contains(got, "星期一") {
		t.Fatalf("expected decoded weekday, got %q", got)
	}
}

func TestFile_UndeclaredChineseFallsBack(t *testing.T) {
	encoded, err := simplifiedchinese.GB18030.NewEncoder().String("<td>星期三</td>")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode([]byte(encoded), "")
	if err != nil || got != "<td>星期三</td>" {
		t.Fatalf("unexpected %q %v", got, err)
	}
}

func TestFile_Stdin(t *testing.T) {
	got, err := File{Path: "-", Stdin: strings.NewReader(NoHTML)}.Markup(context.Background())
	if !errors.Is(err, timetable.ErrNoHTMLContent) || got != "" {
		t.Fatalf("expected ErrNoHTMLContent, got %q %v", got, err)
	}
}
