// Package source supplies the captured timetable page.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// Sentinel payloads a capture helper writes instead of markup.
const (
	NoClipData = "ERROR_NO_CLIP_DATA"
	NoHTML     = "ERROR_NO_HTML"
)

// Source returns captured page markup as UTF-8 text.
type Source interface {
	Markup(ctx context.Context) (string, error)
}

// Classify maps sentinel payloads and non-markup content to their failures.
func Classify(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	switch trimmed {
	case "", NoClipData:
		return "", timetable.ErrNoClipboardData
	case NoHTML:
		return "", timetable.ErrNoHTMLContent
	}
	if !strings.Contains(trimmed, "<") {
		return "", timetable.ErrNoHTMLContent
	}
	return content, nil
}

// Text is markup already held in memory.
type Text string

func (t Text) Markup(context.Context) (string, error) { return Classify(string(t)) }

// File reads a saved page. Path "-" reads Stdin. Encoding names a charset
// label such as "gbk"; empty means detect from the content.
type File struct {
	Path     string
	Encoding string
	Stdin    io.Reader
}

func (f File) Markup(_ context.Context) (string, error) {
	var (
		data []byte
		err  error
	)
	if f.Path == "-" {
		in := f.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(f.Path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	text, err := Decode(data, f.Encoding)
	if err != nil {
		return "", err
	}
	return Classify(text)
}

// Decode converts page bytes to UTF-8. Without a label the encoding comes
// from a BOM or meta declaration. Undeclared content that is not UTF-8 is read
// as GB18030 rather than the windows-1252 default of HTML sniffing.
func Decode(data []byte, label string) (string, error) {
	var enc encoding.Encoding
	if label != "" {
		e, err := htmlindex.Get(label)
		if err != nil {
			return "", fmt.Errorf("encoding %q: %w", label, err)
		}
		enc = e
	} else {
		e, name, certain := charset.DetermineEncoding(data, "text/html")
		enc = e
		if !certain && name == "windows-1252" {
			enc = simplifiedchinese.GB18030
		}
	}
	out, err := io.ReadAll(enc.NewDecoder().Reader(bytes.NewReader(data)))
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(out), nil
}
