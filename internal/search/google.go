// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/talent-radar/internal/httputil"
	"github.com/pdiddy/talent-radar/pkg/types"
)

// googleSearchBase is the Custom Search JSON API endpoint. Declared as a var
// so tests can substitute an httptest server.
var googleSearchBase = "https://www.googleapis.com/customsearch/v1"

// googleMaxNum is the API's per-request result cap.
const googleMaxNum = 10

// GoogleTransport queries the Google Custom Search JSON API.
type GoogleTransport struct {
	Client    *http.Client
	UserAgent string
	APIKey    string
	CX        string
}

// Name returns the transport identifier.
func (t *GoogleTransport) Name() string { return types.TransportGoogle }

// Query runs one search. locale is reduced to its language part for hl.
func (t *GoogleTransport) Query(ctx context.Context, q, locale string, count int) ([]types.Hit, error) {
	if t.APIKey == "" || t.CX == "" {
		return nil, fmt.Errorf("google transport: %w", types.ErrConfigurationMissing)
	}
	if count <= 0 || count > googleMaxNum {
		count = googleMaxNum
	}

	params := url.Values{
		"key": {t.APIKey},
		"cx":  {t.CX},
		"q":   {q},
		"num": {strconv.Itoa(count)},
	}
	if lang, _, _ := strings.Cut(strings.TrimSpace(locale), "-"); lang != "" {
		params.Set("hl", strings.ToLower(lang))
	}

	h := http.Header{}
	h.Set("User-Agent", t.UserAgent)
	h.Set("Accept", "application/json")

	body, err := httputil.Get(ctx, t.Client, googleSearchBase+"?"+params.Encode(), h)
	if err != nil {
		// The request URL carries the API key; keep it out of the error.
		var se *httputil.StatusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("Google Custom Search returned HTTP %d: %w", se.Code, types.ErrBackendFailure)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("Google Custom Search request: %w", ctxErr)
		}
		return nil, fmt.Errorf("Google Custom Search request failed: %w", types.ErrBackendFailure)
	}

	var gr googleResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("parsing Google response: %w", err)
	}

	hits := make([]types.Hit, 0, len(gr.Items))
	for _, it := range gr.Items {
		if it.Link == "" {
			continue
		}
		hits = append(hits, types.Hit{
			Title:   strings.TrimSpace(it.Title),
			Snippet: strings.Join(strings.Fields(it.Snippet), " "),
			Link:    it.Link,
		})
	}
	return hits, nil
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"items"`
}
