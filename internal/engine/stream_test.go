package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectLines(input string) []string {
	var lines []string
	streamLines(strings.NewReader(input), func(line string) {
		lines = append(lines, line)
	})
	return lines
}

func TestStreamLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "newline terminated", input: "STEP 1/1: FROM ubuntu\nCOMMIT\n", want: []string{"STEP 1/1: FROM ubuntu", "COMMIT"}},
		{name: "crlf", input: "pulling\r\ndone\r\n", want: []string{"pulling", "done"}},
		{name: "no trailing newline", input: "first\nlast", want: []string{"first", "last"}},
		{name: "blank line kept", input: "a\n\nb\n", want: []string{"a", "", "b"}},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collectLines(tt.input))
		})
	}
}

func TestStreamLines_KeepsReadingAfterOverlongLine(t *testing.T) {
	long := strings.Repeat("x", maxLineSize+10)
	lines := collectLines("before\n" + long + "\nafter\n")

	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "before", lines[0])
	assert.Equal(t, "after", lines[len(lines)-1])

	middle := lines[1 : len(lines)-1]
	for _, piece := range middle {
		assert.LessOrEqual(t, len(piece), maxLineSize)
	}
	assert.Equal(t, long, strings.Join(middle, ""))
}
