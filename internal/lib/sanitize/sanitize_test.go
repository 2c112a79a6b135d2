package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Plain", input: "Hello officers", expected: "Hello officers"},
		{name: "Script", input: `<script>alert(1)</script>Hi there`, expected: "Hi there"},
		{name: "Inline tags", input: `<b>Bold</b> and <a href="x">link</a>`, expected: "Bold and link"},
		{name: "Ampersand", input: "Q&A session", expected: "Q&A session"},
		{name: "Quotes", input: `Tom's "question"`, expected: `Tom's "question"`},
		{name: "Whitespace", input: "  padded  ", expected: "padded"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Text(tc.input))
		})
	}
}
