package theme

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// StdinPath is the source path that means "read from standard input".
const StdinPath = "-"

// ErrNoMatch is wrapped by MalformedLineError when a line doesn't have the
// "<id> <name>" shape.
var ErrNoMatch = errors.New("expected a channel ID followed by a name")

// The separator accepts any Unicode whitespace, not just ASCII.
var lineRegex = regexp.MustCompile(`^([0-9]+)[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+(.+)$`)

// MalformedLineError reports a theme line that couldn't be parsed.
type MalformedLineError struct {
	Source string
	LineNo int
	Line   string
	Err    error
}

func (e *MalformedLineError) Error() string {
	src := e.Source
	if src == "" {
		src = "theme"
	}
	return fmt.Sprintf("%s:%d: bad line %q: %v", src, e.LineNo, e.Line, e.Err)
}

func (e *MalformedLineError) Unwrap() error {
	return e.Err
}

// Entry is a single channel ID to channel name assignment.
type Entry struct {
	ID   uint64 `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Theme is an ordered mapping of channel ID to channel name.
// Overwriting an ID keeps its original position.
type Theme struct {
	ids   []uint64
	names map[uint64]string
}

// New returns an empty theme.
func New() *Theme {
	return &Theme{names: make(map[uint64]string)}
}

// Set assigns name to id.
func (t *Theme) Set(id uint64, name string) {
	if _, ok := t.names[id]; !ok {
		t.ids = append(t.ids, id)
	}
	t.names[id] = name
}

// Get returns the name for id.
func (t *Theme) Get(id uint64) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

// Len returns the number of entries.
func (t *Theme) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ids)
}

// IDs returns the channel IDs in theme order.
func (t *Theme) IDs() []uint64 {
	if t == nil {
		return nil
	}
	return append([]uint64(nil), t.ids...)
}

// Entries returns the entries in theme order.
func (t *Theme) Entries() []Entry {
	if t == nil {
		return nil
	}
	entries := make([]Entry, 0, len(t.ids))
	for _, id := range t.ids {
		entries = append(entries, Entry{ID: id, Name: t.names[id]})
	}
	return entries
}

// Merge copies every entry of other into t. Entries from other win.
func (t *Theme) Merge(other *Theme) {
	for _, e := range other.Entries() {
		t.Set(e.ID, e.Name)
	}
}

// Merge returns a new theme holding a's entries overridden by b's.
func Merge(a, b *Theme) *Theme {
	merged := New()
	merged.Merge(a)
	merged.Merge(b)
	return merged
}

// Parse reads a theme from r.
func Parse(r io.Reader) (*Theme, error) {
	return parse(r, "")
}

func parse(r io.Reader, source string) (*Theme, error) {
	t := New()
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("reading theme: %w", readErr)
		}
		if line == "" && readErr == io.EOF {
			break
		}
		lineNo++
		id, name, ok, err := parseLine(line)
		if err != nil {
			var mle *MalformedLineError
			if errors.As(err, &mle) {
				mle.Source = source
				mle.LineNo = lineNo
			}
			return nil, err
		}
		if ok {
			t.Set(id, name)
		}
		if readErr == io.EOF {
			break
		}
	}
	return t, nil
}

// parseLine returns ok=false for blank and comment-only lines.
func parseLine(line string) (uint64, string, bool, error) {
	// '#' inside quotes is a comment too
	if i := strings.IndexByte(line, '#'); i != -1 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, "", false, nil
	}

	m := lineRegex.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false, &MalformedLineError{Line: line, Err: ErrNoMatch}
	}

	id, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, "", false, &MalformedLineError{Line: line, Err: err}
	}

	if name, quoted := Unquote(m[2]); quoted {
		return id, name, true, nil
	}
	return id, Normalize(m[2]), true, nil
}

// Unquote reports whether raw is wrapped in a matching pair of ' or "
// with at least one character between them, and returns the interior.
// Quotes inside the interior are not checked.
func Unquote(raw string) (string, bool) {
	if len(raw) < 3 {
		return "", false
	}
	first, last := raw[0], raw[len(raw)-1]
	if (first != '"' && first != '\'') || first != last {
		return "", false
	}
	return raw[1 : len(raw)-1], true
}

// Normalize lowercases name and collapses whitespace runs into "-".
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// ReadFile reads a single theme source. The path "-" reads from stdin.
func ReadFile(path string, stdin io.Reader) (*Theme, error) {
	if path == StdinPath {
		return parse(stdin, "<stdin>")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parse(f, path)
}

// ReadAll reads every source in order and merges them, later sources winning.
func ReadAll(paths []string, stdin io.Reader) (*Theme, error) {
	merged := New()
	for _, path := range paths {
		t, err := ReadFile(path, stdin)
		if err != nil {
			return nil, err
		}
		merged.Merge(t)
	}
	return merged, nil
}
