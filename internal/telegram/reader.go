// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package telegram reads public channel posts from the t.me web preview
// (https://t.me/s/<channel>), which needs no session or credentials.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pdiddy/talent-radar/internal/httputil"
	"github.com/pdiddy/talent-radar/pkg/types"
)

// defaultBase is the preview host. Declared as a var so tests can
// substitute an httptest server.
var defaultBase = "https://t.me"

// maxPages bounds how many preview pages one call follows.
const maxPages = 5

// FeedReader implements ingest.ChannelReader over the channel preview feed.
type FeedReader struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
	Log       *zap.Logger
}

// NewFeedReader returns a reader configured from cfg.
func NewFeedReader(cfg types.ChannelConfig, log *zap.Logger) *FeedReader {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedReader{
		Client:    httputil.NewClient(cfg.HTTPConfig),
		BaseURL:   cfg.BaseURL,
		UserAgent: httputil.UserAgent(cfg.HTTPConfig),
		Log:       log,
	}
}

// RecentMessages returns up to limit text posts of channel, newest first.
// Older pages are requested with ?before=<id> until limit is reached or the
// feed runs out. A failure on a later page returns what was already read.
func (r *FeedReader) RecentMessages(ctx context.Context, channel string, limit int) ([]types.ChannelMessage, error) {
	channel = strings.TrimPrefix(channel, "@")
	if channel == "" {
		return nil, fmt.Errorf("empty channel name: %w", types.ErrSourceUnavailable)
	}
	if limit <= 0 {
		return nil, nil
	}

	seen := make(map[int64]bool)
	var out []types.ChannelMessage
	var before int64

	for page := 0; page < maxPages && len(out) < limit; page++ {
		msgs, err := r.fetchPage(ctx, channel, before)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			r.logger().Debug("stopping at failed page", zap.Int("page", page), zap.Error(err))
			break
		}

		oldest := before
		added := 0
		for _, m := range msgs {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			out = append(out, m)
			added++
			if oldest == 0 || m.ID < oldest {
				oldest = m.ID
			}
		}
		if added == 0 || oldest <= 1 || oldest == before {
			break
		}
		before = oldest
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *FeedReader) fetchPage(ctx context.Context, channel string, before int64) ([]types.ChannelMessage, error) {
	base := r.BaseURL
	if base == "" {
		base = defaultBase
	}
	u := strings.TrimRight(base, "/") + "/s/" + url.PathEscape(channel)
	if before > 0 {
		u += "?before=" + strconv.FormatInt(before, 10)
	}

	h := http.Header{}
	h.Set("User-Agent", r.UserAgent)
	h.Set("Accept", "text/html")

	body, err := httputil.Get(ctx, r.Client, u, h)
	if err != nil {
		return nil, fmt.Errorf("fetching channel feed: %w", err)
	}
	msgs, err := ParseFeed(body)
	if err != nil {
		return nil, err
	}
	r.logger().Debug("feed page read",
		zap.String("url", u),
		zap.Int("messages", len(msgs)))
	return msgs, nil
}

func (r *FeedReader) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// ParseFeed extracts text posts from a preview page in page order (oldest
// first). Posts without text, such as bare photos, are skipped.
func ParseFeed(page []byte) ([]types.ChannelMessage, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing channel feed: %w", err)
	}

	var msgs []types.ChannelMessage
	httputil.Walk(doc, func(n *html.Node) bool {
		if !httputil.HasClass(n, "tgme_widget_message") {
			return true
		}
		if m, ok := parseMessage(n); ok {
			msgs = append(msgs, m)
		}
		return false
	})
	return msgs, nil
}

func parseMessage(n *html.Node) (types.ChannelMessage, bool) {
	var m types.ChannelMessage

	post := httputil.Attr(n, "data-post")
	if i := strings.LastIndexByte(post, '/'); i >= 0 {
		m.ID, _ = strconv.ParseInt(post[i+1:], 10, 64)
	}

	textNode := httputil.FindFirst(n, func(c *html.Node) bool {
		return httputil.HasClass(c, "js-message_text")
	})
	if textNode == nil {
		return m, false
	}
	m.Text = httputil.Text(textNode)
	if m.Text == "" {
		return m, false
	}

	timeNode := httputil.FindFirst(n, func(c *html.Node) bool {
		return c.Type == html.ElementNode && c.Data == "time" && httputil.Attr(c, "datetime") != ""
	})
	if timeNode != nil {
		if t, err := time.Parse(time.RFC3339, httputil.Attr(timeNode, "datetime")); err == nil {
			m.Timestamp = t.UTC()
		}
	}
	return m, true
}
