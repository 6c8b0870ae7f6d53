package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/restclient-go/restclient/restclient"
)

// Formatter renders requests and responses for terminal display
type Formatter struct {
	Verbose bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		scheme:  scheme,
	}
}

// FormatRequest formats an outgoing request for display
func (f *Formatter) FormatRequest(method string, req *restclient.Request) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ %s %s\n", f.scheme.Method.Sprint(method), f.scheme.URL.Sprint(req.URL)))

	if f.Verbose && len(req.Headers) > 0 {
		for _, key := range sortedKeys(req.Headers) {
			buf.WriteString(fmt.Sprintf("  %s: %s\n", f.scheme.HeaderKey.Sprint(key), req.Headers[key]))
		}
	}

	return buf.String()
}

// FormatResponse formats a response for display. Transport failures render
// as an error line instead of a status code.
func (f *Formatter) FormatResponse(resp *restclient.Response) string {
	var buf strings.Builder

	if resp.IsTransportFailure() {
		buf.WriteString(fmt.Sprintf("◀ %s\n", f.scheme.Error.Sprint(resp.BodyString())))
		return buf.String()
	}

	buf.WriteString(fmt.Sprintf("◀ %s\n", f.statusColor(resp).Sprintf("%d", resp.Status)))

	if f.Verbose {
		for _, key := range sortedKeys(resp.Headers) {
			buf.WriteString(fmt.Sprintf("  %s: %s\n", f.scheme.HeaderKey.Sprint(key), resp.Headers[key]))
		}
	}

	if len(resp.Body) > 0 {
		buf.WriteString(formatBody(resp.Body))
		buf.WriteString("\n")
	}

	return buf.String()
}

func (f *Formatter) statusColor(resp *restclient.Response) *color.Color {
	switch {
	case resp.IsSuccess():
		return f.scheme.StatusOK
	case resp.IsRedirect():
		return f.scheme.StatusWarn
	default:
		return f.scheme.StatusError
	}
}

// formatBody pretty-prints JSON bodies and passes everything else through
func formatBody(body []byte) string {
	var indented bytes.Buffer
	if err := json.Indent(&indented, body, "", "  "); err != nil {
		return string(body)
	}
	return indented.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
