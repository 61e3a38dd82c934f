// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/talent-radar/internal/httputil"
	"github.com/pdiddy/talent-radar/pkg/types"
)

// duckDuckGoBase is the keyless HTML endpoint. Declared as a var so tests
// can substitute an httptest server.
var duckDuckGoBase = "https://html.duckduckgo.com/html/"

// DuckDuckGoTransport scrapes the DuckDuckGo HTML results page.
type DuckDuckGoTransport struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the transport identifier.
func (t *DuckDuckGoTransport) Name() string { return types.TransportDuckDuckGo }

// Query runs one search. locale is a region such as "ru-ru"; a bare
// language "ru" is expanded to "ru-ru".
func (t *DuckDuckGoTransport) Query(ctx context.Context, q, locale string, count int) ([]types.Hit, error) {
	params := url.Values{"q": {q}}
	if kl := duckDuckGoRegion(locale); kl != "" {
		params.Set("kl", kl)
	}

	h := http.Header{}
	h.Set("User-Agent", t.UserAgent)
	h.Set("Accept", "text/html,application/xhtml+xml")

	body, err := httputil.Get(ctx, t.Client, duckDuckGoBase+"?"+params.Encode(), h)
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo request: %w", err)
	}
	return parseDuckDuckGo(body, count)
}

func duckDuckGoRegion(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" || strings.Contains(locale, "-") {
		return locale
	}
	return locale + "-" + locale
}

func parseDuckDuckGo(page []byte, count int) ([]types.Hit, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing DuckDuckGo results: %w", err)
	}

	var hits []types.Hit
	httputil.Walk(doc, func(n *html.Node) bool {
		if count > 0 && len(hits) >= count {
			return false
		}
		if !httputil.HasClass(n, "result") {
			return true
		}
		if httputil.HasClass(n, "result--ad") {
			return false
		}
		if hit, ok := duckDuckGoHit(n); ok {
			hits = append(hits, hit)
		}
		return false
	})
	return hits, nil
}

func duckDuckGoHit(n *html.Node) (types.Hit, bool) {
	var hit types.Hit
	if a := httputil.FindFirst(n, func(c *html.Node) bool { return httputil.HasClass(c, "result__a") }); a != nil {
		hit.Title = httputil.InlineText(a)
		hit.Link = unwrapRedirect(httputil.Attr(a, "href"))
	}
	if s := httputil.FindFirst(n, func(c *html.Node) bool { return httputil.HasClass(c, "result__snippet") }); s != nil {
		hit.Snippet = httputil.InlineText(s)
	}
	return hit, hit.Title != "" && hit.Link != ""
}

// unwrapRedirect resolves DuckDuckGo's //duckduckgo.com/l/?uddg=<target>
// links to the target URL.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && u.Path == "/l/" {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}
