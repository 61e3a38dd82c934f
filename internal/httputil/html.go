// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of attribute key on n, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether n is an element whose class list contains class
// as a whole token.
func HasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth-first. When visit returns false
// the children of that node are skipped.
func Walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, visit)
	}
}

// FindFirst returns the first descendant of n (n included) matching match.
func FindFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	Walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// Text returns the text content of n. <br> becomes a line break and each
// line is trimmed; blank lines are kept.
func Text(n *html.Node) string {
	var sb strings.Builder
	Walk(n, func(c *html.Node) bool {
		switch {
		case c.Type == html.TextNode:
			sb.WriteString(c.Data)
		case c.Type == html.ElementNode && c.Data == "br":
			sb.WriteByte('\n')
		}
		return true
	})
	lines := strings.Split(sb.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// InlineText returns the text content of n collapsed onto one line.
func InlineText(n *html.Node) string {
	return strings.Join(strings.Fields(Text(n)), " ")
}
