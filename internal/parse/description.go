package parse

import (
	"strings"

	"github.com/hyperifyio/gotimetable/internal/tokenize"
)

// splitDescriptions detaches the trailing footnote row of a template c
// stream. The footnote holds "name:educator" pairs separated by a full-width
// semicolon; pairs without a colon are skipped.
func splitDescriptions(lines []string) ([]string, map[string]string) {
	head := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] == tokenize.WrapHead {
			head = i
			break
		}
	}
	if head < 0 {
		return lines, map[string]string{}
	}
	return lines[:head], parseDescriptions(lines[head:])
}

func parseDescriptions(block []string) map[string]string {
	out := map[string]string{}
	start := -1
	for i, line := range block {
		if line == tokenize.Filled {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return out
	}
	var content []string
	for _, line := range block[start:] {
		if line == tokenize.Terminal {
			break
		}
		if tokenize.IsMarker(line) {
			continue
		}
		content = append(content, line)
	}
	for _, pair := range strings.Split(strings.Join(content, "\n"), "；") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}
