// Package normalize reduces rich-text card content to comparable plain text.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// fragmentContext is the element card content is rendered into.
var fragmentContext = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

// rawText applies the input preprocessing the HTML parser does to text: line
// endings become LF and NUL characters are dropped.
var rawText = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\x00", "")

// Text returns the visible text of an HTML fragment with entities decoded and
// surrounding whitespace trimmed. Interior whitespace is preserved as written,
// except that line endings are normalized to LF.
// Unparseable input falls back to the trimmed raw fragment.
func Text(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return trim(rawText.Replace(fragment))
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), fragmentContext)
	if err != nil {
		return trim(rawText.Replace(fragment))
	}

	var sb strings.Builder
	for _, n := range nodes {
		collectText(n, &sb)
	}
	return trim(sb.String())
}

// Equal reports whether two fragments normalize to the same text.
func Equal(a, b string) bool {
	return Text(a) == Text(b)
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func trim(s string) string {
	return strings.TrimFunc(s, isTrimSpace)
}

// isTrimSpace matches the whitespace set browsers strip when trimming text:
// unicode white space plus the byte order mark, minus NEL.
func isTrimSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}
