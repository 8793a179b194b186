package tokenize

import (
	"strconv"
	"strings"
)

// Marker vocabulary of the token stream. Every marker is a line of its own
// once tokenizing completes.
const (
	Terminal    = "?#terminal"
	WrapHead    = "?#wrapHEAD"
	WrapTOE     = "?#wrapTOE"
	Filled      = "?#filled"
	Empty       = "?#empty"
	Null        = "?#null"
	Period1     = "?#period1"
	Period2     = "?#period2"
	Period3     = "?#period3"
	Morning     = "?#morning"
	Afternoon   = "?#afternoon"
	Evening     = "?#evening"
	Todo        = "?#todo"
	Description = "?#description"

	// InitiatePrefix is followed by the absolute period index, 1..14.
	InitiatePrefix = "?#initiate"

	markerPrefix = "?#"
	breakMarker  = "?#break"
	nothing      = "?#nothing"
)

// Initiate returns the marker that opens period n.
func Initiate(n int) string { return InitiatePrefix + strconv.Itoa(n) }

// IsMarker reports whether line is a structural marker rather than cell text.
func IsMarker(line string) bool { return strings.HasPrefix(line, markerPrefix) }
