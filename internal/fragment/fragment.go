// Package fragment splits a document into the ordered fragments of an
// exercise. The document order is the answer key.
package fragment

import (
	"strings"
)

const DefaultMaxSize = 600

// Mode selects the fragment boundary.
type Mode string

const (
	// Paragraphs splits on blank lines and headings.
	Paragraphs Mode = "paragraphs"
	// Lines makes every non-blank line a fragment.
	Lines Mode = "lines"
)

// Options configures splitting.
type Options struct {
	Mode    Mode
	MaxSize int
}

// DefaultOptions returns paragraph splitting with the default size cap.
func DefaultOptions() Options {
	return Options{Mode: Paragraphs, MaxSize: DefaultMaxSize}
}

// Fragment is one piece of the source document.
type Fragment struct {
	Text      string
	StartLine int
	EndLine   int
}

// Split breaks text into fragments in document order. Fragments longer than
// opts.MaxSize are cut on line boundaries.
func Split(text string, opts Options) []Fragment {
	if opts.Mode == "" {
		opts.Mode = Paragraphs
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var blocks []Fragment
	if opts.Mode == Lines {
		blocks = splitLines(text)
	} else {
		blocks = splitParagraphs(text)
	}

	var out []Fragment
	for _, b := range blocks {
		if len(b.Text) > opts.MaxSize {
			out = append(out, hardSplit(b, opts.MaxSize)...)
			continue
		}
		out = append(out, b)
	}
	return out
}

func splitLines(text string) []Fragment {
	var out []Fragment
	for i, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, Fragment{Text: t, StartLine: i + 1, EndLine: i + 1})
		}
	}
	return out
}

// splitParagraphs cuts before every heading line and at every blank line.
func splitParagraphs(text string) []Fragment {
	lines := strings.Split(text, "\n")
	var out []Fragment
	var current []string
	start := 1

	flush := func(end int) {
		if t := strings.TrimSpace(strings.Join(current, "\n")); t != "" {
			out = append(out, Fragment{Text: t, StartLine: start, EndLine: end})
		}
		current = nil
	}

	for i, line := range lines {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush(lineNum - 1)
			continue
		}
		if strings.HasPrefix(trimmed, "#") && len(current) > 0 {
			flush(lineNum - 1)
		}
		if len(current) == 0 {
			start = lineNum
		}
		current = append(current, line)
	}
	flush(len(lines))

	return out
}

// hardSplit breaks an oversized fragment on line boundaries. A single line
// longer than maxSize is kept whole.
func hardSplit(f Fragment, maxSize int) []Fragment {
	lines := strings.Split(f.Text, "\n")
	var out []Fragment
	var current []string
	curStart := f.StartLine
	curLen := 0

	for i, line := range lines {
		if curLen+len(line) > maxSize && len(current) > 0 {
			if t := strings.TrimSpace(strings.Join(current, "\n")); t != "" {
				out = append(out, Fragment{Text: t, StartLine: curStart, EndLine: f.StartLine + i - 1})
			}
			current = nil
			curStart = f.StartLine + i
			curLen = 0
		}
		current = append(current, line)
		curLen += len(line) + 1
	}

	if t := strings.TrimSpace(strings.Join(current, "\n")); t != "" {
		out = append(out, Fragment{Text: t, StartLine: curStart, EndLine: f.StartLine + len(lines) - 1})
	}
	return out
}
