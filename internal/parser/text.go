package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// whitespaceRegex matches runs of ASCII and Unicode separator whitespace (NBSP included).
var whitespaceRegex = regexp.MustCompile(`[\s\p{Z}\x{85}]+`)

// strategy is one step of a fallback chain. It reports ok=false when it has
// nothing usable so the next step can run.
type strategy func(doc *goquery.Document) (string, bool)

// firstOf evaluates the strategies in order and returns the first usable value.
func firstOf(doc *goquery.Document, chain ...strategy) (string, bool) {
	for _, try := range chain {
		if v, ok := try(doc); ok {
			return v, true
		}
	}
	return "", false
}

// flatten joins every trimmed, non-empty text node under sel with sep.
// Script, style and template contents are skipped.
func flatten(sel *goquery.Selection, sep string) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, sep)
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if s := strings.TrimSpace(n.Data); s != "" {
			*parts = append(*parts, s)
		}
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "template":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// nodeText is flatten for a single node.
func nodeText(n *html.Node, sep string) string {
	var parts []string
	collectText(n, &parts)
	return strings.Join(parts, sep)
}

func collapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// truncateRunes cuts s to at most limit characters.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func runeLen(s string) int {
	return len([]rune(s))
}
