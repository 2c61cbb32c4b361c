package disktree

import (
	"regexp"
	"strings"
)

// unnamed is shown for labels that have nothing printable left.
const unnamed = "<unnamed>"

type labelCleaner struct {
	patterns []*regexp.Regexp
	repl     []string
}

// Volume names read off old media are often space padded or carry control
// bytes; strip those before they reach a display.
var cleaner = &labelCleaner{
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`[\x00-\x1f\x7f]`),
		regexp.MustCompile(`\s{2,}`),
	},
	repl: []string{"", " "},
}

func (c *labelCleaner) clean(s string) string {
	s = strings.ToValidUTF8(s, "")
	for i, p := range c.patterns {
		s = p.ReplaceAllString(s, c.repl[i])
	}
	return strings.TrimSpace(s)
}

func volumeLabel(id string) string {
	if l := cleaner.clean(id); l != "" {
		return l
	}
	return unnamed
}

func entryLabel(name string) string {
	if l := cleaner.clean(name); l != "" {
		return l
	}
	return unnamed
}
