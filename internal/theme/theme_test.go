package theme

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Lines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Entry
	}{
		{
			name:     "double quoted name kept verbatim",
			input:    `42 "Hello World"`,
			expected: []Entry{{ID: 42, Name: "Hello World"}},
		},
		{
			name:     "single quoted name kept verbatim",
			input:    `42 'Mixed  Case'`,
			expected: []Entry{{ID: 42, Name: "Mixed  Case"}},
		},
		{
			name:     "unquoted name normalized",
			input:    "42 Hello   World",
			expected: []Entry{{ID: 42, Name: "hello-world"}},
		},
		{
			name:     "tab separator",
			input:    "42\tGeneral Chat",
			expected: []Entry{{ID: 42, Name: "general-chat"}},
		},
		{
			name:     "trailing comment stripped",
			input:    "42 Name # trailing comment",
			expected: []Entry{{ID: 42, Name: "name"}},
		},
		{
			name:     "comment inside quotes still stripped",
			input:    `42 "Room #1"`,
			expected: []Entry{{ID: 42, Name: `"room`}},
		},
		{
			name:     "mismatched quotes normalized",
			input:    `42 "Hello World'`,
			expected: []Entry{{ID: 42, Name: `"hello-world'`}},
		},
		{
			name:     "empty quotes normalized",
			input:    `42 ""`,
			expected: []Entry{{ID: 42, Name: `""`}},
		},
		{
			name:     "nested quotes not validated",
			input:    `42 "a"b"`,
			expected: []Entry{{ID: 42, Name: `a"b`}},
		},
		{
			name:     "surrounding whitespace ignored",
			input:    "   7    lobby   ",
			expected: []Entry{{ID: 7, Name: "lobby"}},
		},
		{
			name:     "blank and comment lines skipped",
			input:    "\n   \n# header\n1 one\n\n  # another\n2 two\n",
			expected: []Entry{{ID: 1, Name: "one"}, {ID: 2, Name: "two"}},
		},
		{
			name:     "duplicate id keeps first position",
			input:    "1 a\n2 b\n1 c\n",
			expected: []Entry{{ID: 1, Name: "c"}, {ID: 2, Name: "b"}},
		},
		{
			name:     "vertical tab separator",
			input:    "42\vName",
			expected: []Entry{{ID: 42, Name: "name"}},
		},
		{
			name:     "no-break space separator",
			input:    "42\u00a0Name",
			expected: []Entry{{ID: 42, Name: "name"}},
		},
		{
			name:     "ideographic space separator",
			input:    "42\u3000Name",
			expected: []Entry{{ID: 42, Name: "name"}},
		},
		{
			name:     "crlf line endings",
			input:    "1 one\r\n2 two\r\n",
			expected: []Entry{{ID: 1, Name: "one"}, {ID: 2, Name: "two"}},
		},
		{
			name:     "max uint64 id",
			input:    "18446744073709551615 top",
			expected: []Entry{{ID: 18446744073709551615, Name: "top"}},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []Entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, th.Entries())
		})
	}
}

func TestParse_LongLine(t *testing.T) {
	name := strings.Repeat("a", 70000)

	th, err := Parse(strings.NewReader("1 " + name + "\n2 short"))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: 1, Name: name}, {ID: 2, Name: "short"}}, th.Entries())
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   string
		lineNo int
		cause  error
	}{
		{"not a number", "notanumber rest", "notanumber rest", 1, ErrNoMatch},
		{"id without name", "1 ok\n12345", "12345", 2, ErrNoMatch},
		{"digits glued to name", "123abc def", "123abc def", 1, ErrNoMatch},
		{"negative id", "-5 name", "-5 name", 1, ErrNoMatch},
		{"overflow", "18446744073709551616 big", "18446744073709551616 big", 1, strconv.ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, th)

			var mle *MalformedLineError
			require.True(t, errors.As(err, &mle))
			assert.Equal(t, tt.line, mle.Line)
			assert.Equal(t, tt.lineNo, mle.LineNo)
			assert.ErrorIs(t, err, tt.cause)
			assert.Contains(t, err.Error(), "bad line")
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"General", "general"},
		{"Hello   World", "hello-world"},
		{"a\tb \t c", "a-b-c"},
		{"already-normal", "already-normal"},
		{"ÜBER Chat", "über-chat"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, Normalize(got), "normalizing twice should equal normalizing once")
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		quoted   bool
	}{
		{`"x"`, "x", true},
		{`'x y'`, "x y", true},
		{`""`, "", false},
		{`''`, "", false},
		{`"`, "", false},
		{`"x'`, "", false},
		{`x`, "", false},
		{`'it's'`, "it's", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Unquote(tt.input)
			assert.Equal(t, tt.quoted, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMerge(t *testing.T) {
	a, err := Parse(strings.NewReader("1 a\n2 keep\n"))
	require.NoError(t, err)
	b, err := Parse(strings.NewReader("3 new\n1 b\n"))
	require.NoError(t, err)

	merged := Merge(a, b)
	assert.Equal(t, []Entry{{1, "b"}, {2, "keep"}, {3, "new"}}, merged.Entries())

	// inputs are untouched
	name, _ := a.Get(1)
	assert.Equal(t, "a", name)
	assert.Equal(t, 2, a.Len())
}

func writeTheme(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadAll_LaterFilesWin(t *testing.T) {
	dir := t.TempDir()
	first := writeTheme(t, dir, "a.theme", "1 a\n")
	second := writeTheme(t, dir, "b.theme", "1 b\n")

	th, err := ReadAll([]string{first, second}, nil)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: 1, Name: "b"}}, th.Entries())
}

func TestReadAll_Stdin(t *testing.T) {
	dir := t.TempDir()
	base := writeTheme(t, dir, "base.theme", "1 base\n2 two\n")

	th, err := ReadAll([]string{base, StdinPath}, strings.NewReader(`2 "From Stdin"`))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{1, "base"}, {2, "From Stdin"}}, th.Entries())
}

func TestReadAll_NoPaths(t *testing.T) {
	th, err := ReadAll(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, th.Len())
}

func TestReadAll_MissingFile(t *testing.T) {
	_, err := ReadAll([]string{filepath.Join(t.TempDir(), "nope.theme")}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadAll_MalformedNamesSource(t *testing.T) {
	dir := t.TempDir()
	good := writeTheme(t, dir, "good.theme", "1 one\n")
	bad := writeTheme(t, dir, "bad.theme", "# ok\nbroken\n")

	_, err := ReadAll([]string{good, bad}, nil)
	require.Error(t, err)

	var mle *MalformedLineError
	require.ErrorAs(t, err, &mle)
	assert.Equal(t, bad, mle.Source)
	assert.Equal(t, 2, mle.LineNo)
	assert.Contains(t, err.Error(), bad+":2")
}
