package timetable

import "errors"

// Classified pipeline failures. Callers match them with errors.Is; wrapped
// errors carry the detail.
var (
	// ErrNoClipboardData means the markup source had nothing to offer.
	ErrNoClipboardData = errors.New("no clipboard data")
	// ErrNoHTMLContent means content was available but it is not markup.
	ErrNoHTMLContent = errors.New("no html content")
	// ErrNoTableContent means the markup is empty or holds no recognizable timetable.
	ErrNoTableContent = errors.New("no table content")
	// ErrUndefinedStructure means the banner preceding the grid could not be located.
	ErrUndefinedStructure = errors.New("undefined table structure")
	// ErrMalformedWeekRange means the user supplied a non-numeric or non-positive week.
	ErrMalformedWeekRange = errors.New("malformed week range")
	// ErrExportFailure means a renderer or the persistence routine failed after a successful parse.
	ErrExportFailure = errors.New("export failed")
	// ErrUnexpectedParse is the umbrella for failures raised while dispatching fields.
	ErrUnexpectedParse = errors.New("unexpected parse failure")
	// ErrPromptDismissed means the user closed the week prompt without answering.
	ErrPromptDismissed = errors.New("week prompt dismissed")
)
