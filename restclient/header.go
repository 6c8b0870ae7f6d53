package restclient

import "strings"

// HeaderPresent is the value recorded for header lines that carry no ':'
// separator, such as the status line. Consumers that look headers up by
// status line depend on these being kept rather than dropped.
const HeaderPresent = "present"

// ParseHeaderLine parses one raw header line, trailing terminator included.
// Lines with a ':' split at the first one, key and value trimmed of
// whitespace. Non-blank lines without a ':' are recorded as presence
// markers. Blank lines (the separator between header block and body) report
// ok == false and are ignored.
//
// Header-name case is preserved exactly as received; callers needing
// case-insensitive lookup must normalize themselves.
func ParseHeaderLine(line string) (key, value string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return "", "", false
		}
		return trimmed, HeaderPresent, true
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}
