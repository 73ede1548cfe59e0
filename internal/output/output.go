package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents the output format
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

var (
	// OutputFormat is the current output format (set by root command)
	OutputFormat Format = FormatText

	// Writer is where output goes (default os.Stdout, can be changed for testing)
	Writer io.Writer = os.Stdout
)

// IsText returns true if results should go through the log-style summary
func IsText() bool {
	return OutputFormat == FormatText || OutputFormat == ""
}

// PrintJSON outputs data as formatted JSON
func PrintJSON(data interface{}) error {
	enc := json.NewEncoder(Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintYAML outputs data as a YAML document
func PrintYAML(data interface{}) error {
	enc := yaml.NewEncoder(Writer)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// Printf outputs a formatted string
func Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(Writer, format, args...)
}

// Println outputs a line
func Println(args ...interface{}) {
	_, _ = fmt.Fprintln(Writer, args...)
}

// Table prints data in aligned columns with headers
func Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	formats := make([]string, len(headers))
	for i, w := range widths {
		formats[i] = fmt.Sprintf("%%-%ds", w)
	}
	// no trailing padding on the last column
	formats[len(formats)-1] = "%s"
	format := strings.Join(formats, "  ") + "\n"

	headerArgs := make([]interface{}, len(headers))
	for i, h := range headers {
		headerArgs[i] = h
	}
	_, _ = fmt.Fprintf(Writer, format, headerArgs...)

	total := 0
	for _, w := range widths {
		total += w
	}
	total += (len(widths) - 1) * 2
	_, _ = fmt.Fprintln(Writer, strings.Repeat("-", total))

	for _, row := range rows {
		rowArgs := make([]interface{}, len(headers))
		for i := range headers {
			if i < len(row) {
				rowArgs[i] = row[i]
			} else {
				rowArgs[i] = ""
			}
		}
		_, _ = fmt.Fprintf(Writer, format, rowArgs...)
	}
}

// KeyValue prints a single key-value pair
func KeyValue(key string, value interface{}) {
	_, _ = fmt.Fprintf(Writer, "%-12s  %v\n", key+":", value)
}

// Print renders data in the current non-text format
func Print(data interface{}, headers []string, rows [][]string) error {
	switch OutputFormat {
	case FormatJSON:
		return PrintJSON(data)
	case FormatYAML:
		return PrintYAML(data)
	case FormatTable:
		Table(headers, rows)
		return nil
	default:
		return fmt.Errorf("format %q has no structured rendering", OutputFormat)
	}
}

// ValidFormats returns the list of valid output formats for flag validation
func ValidFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// ParseFormat parses a string into a Format, returning an error if invalid
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "table":
		return FormatTable, nil
	default:
		return FormatText, fmt.Errorf("invalid output format %q: must be one of: %s", s, strings.Join(ValidFormats(), ", "))
	}
}
