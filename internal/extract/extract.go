// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns free-form channel messages into CandidateRecords
// using ordered, deterministic pattern rules. It performs no I/O.
package extract

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/talent-radar/pkg/types"
)

// DefaultMinLength is the shortest message, in characters, worth parsing.
const DefaultMinLength = 44

// resumeMarkers and postingMarkers are matched against the lowercased text.
var resumeMarkers = []string{
	"резюме",
	"ищу работу",
	"рассмотрю предложения",
	"опыт работы",
	"навыки:",
	"resume",
	"looking for work",
	"looking for a job",
	"will consider offers",
	"work experience",
	"skills:",
}

var postingMarkers = []string{
	"вакансия",
	"требуется",
	"ищем",
	"vacancy",
	"required",
	"hiring",
}

// field fills one attribute of a record. Fields run in slice order.
type field struct {
	name  string
	apply func(text string, r *types.CandidateRecord)
}

var fields = []field{
	{"name", func(text string, r *types.CandidateRecord) { r.Name = orUnspecified(nameRules.first(text)) }},
	{"position", func(text string, r *types.CandidateRecord) { r.Position = orUnspecified(positionRules.first(text)) }},
	{"level", func(text string, r *types.CandidateRecord) { r.Level = levelRules.first(text) }},
	{"location", func(text string, r *types.CandidateRecord) { r.Location = locationRules.first(text) }},
	{"salary", func(text string, r *types.CandidateRecord) { r.SalaryExpectation = salaryRules.first(text) }},
	{"skills", func(text string, r *types.CandidateRecord) { r.Skills = extractSkills(text) }},
	{"experience", func(text string, r *types.CandidateRecord) { r.Experience = experienceRules.first(text) }},
	{"contacts", func(text string, r *types.CandidateRecord) { r.Contacts = extractContacts(text) }},
}

func orUnspecified(s string) string {
	if s == "" {
		return types.Unspecified
	}
	return s
}

// Extractor parses candidate records from message text.
type Extractor struct {
	minLength int
}

// New returns an Extractor. A non-positive MinLength selects DefaultMinLength.
func New(cfg types.ExtractConfig) *Extractor {
	minLength := cfg.MinLength
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Extractor{minLength: minLength}
}

// Check reports why text would be rejected, wrapping types.ErrMalformedInput,
// or nil when it is a candidate signal. Text carrying both resume and
// posting markers is accepted.
func (e *Extractor) Check(text string) error {
	if n := utf8.RuneCountInString(text); n < e.minLength {
		return fmt.Errorf("%w: %d characters, need %d", types.ErrMalformedInput, n, e.minLength)
	}
	lower := strings.ToLower(text)
	if containsAny(lower, postingMarkers) && !containsAny(lower, resumeMarkers) {
		return fmt.Errorf("%w: looks like a job posting", types.ErrMalformedInput)
	}
	return nil
}

// Extract parses text into a record. It returns false when Check rejects the
// text. SourceLink and CapturedAt are left zero; see ExtractMessage.
func (e *Extractor) Extract(text string) (types.CandidateRecord, bool) {
	if e.Check(text) != nil {
		return types.CandidateRecord{}, false
	}
	r := types.CandidateRecord{RawText: text}
	for _, f := range fields {
		f.apply(text, &r)
	}
	return r, true
}

// ExtractMessage parses msg and stamps the result with link and the message
// time, falling back to now when the message has no timestamp.
func (e *Extractor) ExtractMessage(msg types.ChannelMessage, link string, now time.Time) (types.CandidateRecord, bool) {
	r, ok := e.Extract(msg.Text)
	if !ok {
		return r, false
	}
	r.SourceLink = link
	r.CapturedAt = msg.Timestamp
	if r.CapturedAt.IsZero() {
		r.CapturedAt = now
	}
	return r, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
