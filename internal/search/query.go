// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minQueryLen is the shortest normalized query worth sending; anything
// shorter falls back to the raw input.
const minQueryLen = 3

// hint is one structured label recognized in a raw query. Values run up to
// the next comma or line break.
type hint struct {
	name string
	re   *regexp.Regexp
}

func labelPattern(labels string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:` + labels + `)[ \t]*:[ \t]*([^,\n]+)`)
}

// hints are joined in this order when building a targeted query.
var hints = []hint{
	{"position", labelPattern(`position|должность|позиция`)},
	{"skills", labelPattern(`skills?|навыки`)},
	{"location", labelPattern(`location|город`)},
	{"experience", labelPattern(`experience|опыт`)},
}

// triggerPhrases are request verbs that carry no search meaning.
var triggerPhrases = []string{
	"search online",
	"find candidates",
	"search candidates",
	"look for candidates",
	"найди кандидатов",
	"найти кандидатов",
	"поиск кандидатов",
	"ищи кандидатов",
	"найди специалистов",
	"поищи в интернете",
}

var triggerRe = func() *regexp.Regexp {
	quoted := make([]string, len(triggerPhrases))
	for i, p := range triggerPhrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
}()

// NormalizeQuery turns a free-form request into a search string. Labelled
// hints are concatenated when present; otherwise trigger phrases are
// stripped and the rest is kept. A result shorter than three characters
// yields raw unchanged.
func NormalizeQuery(raw string) string {
	var terms []string
	for _, h := range hints {
		if m := h.re.FindStringSubmatch(raw); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				terms = append(terms, v)
			}
		}
	}

	var q string
	if len(terms) > 0 {
		q = strings.Join(terms, " ")
	} else {
		q = triggerRe.ReplaceAllString(raw, " ")
		q = strings.Trim(strings.Join(strings.Fields(q), " "), " ,.:;!?")
	}

	if utf8.RuneCountInString(q) < minQueryLen {
		return raw
	}
	return q
}

// ScopedQuery restricts q to one backend's domain.
func ScopedQuery(q, domain string) string {
	return q + " site:" + domain
}
