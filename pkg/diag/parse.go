package diag

import (
	"regexp"
	"strconv"
	"strings"
)

// LineKind classifies a single line of linter output.
type LineKind int

const (
	// KindIgnored is anything the aggregator does not understand.
	KindIgnored LineKind = iota
	// KindOK is a "<path>: OK!" marker.
	KindOK
	// KindError is a "<path>: Error!" marker.
	KindError
	// KindDetail is a candidate error detail line. It only counts when an
	// Error! report is open.
	KindDetail
	// KindNotice is a "Notice:" line.
	KindNotice
)

// String returns a readable name for the kind.
func (k LineKind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindError:
		return "error"
	case KindDetail:
		return "detail"
	case KindNotice:
		return "notice"
	default:
		return "ignored"
	}
}

const (
	okSuffix     = ": OK!"
	errorSuffix  = ": Error!"
	errorKeyword = "Error:"
	noticePrefix = "Notice:"
)

// detailPattern matches "RULE [position]: message" where position is either
// "line 3, col 5" or norminette's "(line:   3, col:  5)".
//
//nolint:gochecknoglobals // Compiled once, read-only.
var detailPattern = regexp.MustCompile(
	`^([A-Za-z_][A-Za-z0-9_]*)\s*` +
		`(?:\(?\s*line:?\s*(\d+)\s*,\s*col(?:umn)?:?\s*(\d+)\s*\)?)?` +
		`\s*:\s*(.*)$`,
)

// Classify determines the kind of a raw output line. For file markers it
// also returns the file path.
func Classify(line string) (LineKind, string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return KindIgnored, ""
	}

	if path, ok := markerPath(trimmed, okSuffix); ok {
		return KindOK, path
	}
	if path, ok := markerPath(trimmed, errorSuffix); ok {
		return KindError, path
	}

	if strings.HasPrefix(trimmed, noticePrefix) {
		return KindNotice, ""
	}

	if strings.HasPrefix(trimmed, errorKeyword) || startsWithSpace(line) {
		return KindDetail, ""
	}

	return KindIgnored, ""
}

func markerPath(trimmed, suffix string) (string, bool) {
	if !strings.HasSuffix(trimmed, suffix) {
		return "", false
	}
	path := strings.TrimSpace(strings.TrimSuffix(trimmed, suffix))
	if path == "" {
		return "", false
	}
	return path, true
}

func startsWithSpace(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}

// ParseDetail parses an error or notice detail line belonging to path.
// It never fails: a line without a recognizable rule token becomes a
// diagnostic with an empty rule and the trimmed raw line as message.
func ParseDetail(path, line string) Diagnostic {
	raw := strings.TrimSpace(line)

	body := raw
	switch {
	case strings.HasPrefix(body, errorKeyword):
		body = strings.TrimSpace(strings.TrimPrefix(body, errorKeyword))
	case strings.HasPrefix(body, noticePrefix):
		body = strings.TrimSpace(strings.TrimPrefix(body, noticePrefix))
	}

	match := detailPattern.FindStringSubmatch(body)
	if match == nil {
		return Diagnostic{FilePath: path, Message: raw}
	}

	diagnostic := Diagnostic{
		FilePath: path,
		Rule:     match[1],
		Message:  match[4],
	}

	if match[2] != "" && match[3] != "" {
		line, lineErr := strconv.Atoi(match[2])
		col, colErr := strconv.Atoi(match[3])
		if lineErr != nil || colErr != nil {
			return Diagnostic{FilePath: path, Message: raw}
		}
		diagnostic.Line = &line
		diagnostic.Column = &col
	}

	return diagnostic
}
