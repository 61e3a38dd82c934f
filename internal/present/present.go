// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package present renders candidate records and aggregated web results as
// plain-text summaries. Sections always appear in the same order and empty
// optional fields print as NotSpecified, so the layout is stable.
package present

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/talent-radar/internal/search"
	"github.com/pdiddy/talent-radar/pkg/types"
)

// NotSpecified stands in for an absent field.
const NotSpecified = "not specified"

const (
	DefaultMaxRecords      = 10
	DefaultMaxSkills       = 5
	DefaultMaxPerBackend   = 5
	DefaultGlobalNoteAbove = 15
)

// CandidateOptions controls Candidates. Zero values take the defaults.
type CandidateOptions struct {
	// Source names where the records came from, such as a channel link.
	Source     string
	MaxRecords int
	MaxSkills  int
}

// WebOptions controls WebResults. Zero values take the defaults.
type WebOptions struct {
	MaxPerBackend   int
	GlobalNoteAbove int
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func value(s string) string {
	if strings.TrimSpace(s) == "" || s == types.Unspecified {
		return NotSpecified
	}
	return s
}

func filterValue(s string) string {
	if s == "" {
		return "any"
	}
	return fmt.Sprintf("%q", s)
}

// Candidates renders records: header, active filters, up to MaxRecords
// numbered records, then a remainder notice.
func Candidates(records []types.CandidateRecord, f types.Filters, opts CandidateOptions) string {
	maxRecords := orDefault(opts.MaxRecords, DefaultMaxRecords)
	maxSkills := orDefault(opts.MaxSkills, DefaultMaxSkills)

	var b strings.Builder
	fmt.Fprintf(&b, "Candidates: %d found", len(records))
	if opts.Source != "" {
		fmt.Fprintf(&b, " in %s", opts.Source)
	}
	b.WriteString("\n")
	if f.IsZero() {
		b.WriteString("Filters: none\n")
	} else {
		fmt.Fprintf(&b, "Filters: profession %s, level %s, location %s\n",
			filterValue(f.Profession), filterValue(f.Level), filterValue(f.Location))
	}

	if len(records) == 0 {
		if f.IsZero() {
			b.WriteString("\nNo candidates found.\n")
		} else {
			b.WriteString("\nNo candidates matched these filters.\n")
		}
		return b.String()
	}

	for i, r := range records {
		if i == maxRecords {
			break
		}
		b.WriteString("\n")
		writeRecord(&b, i+1, r, maxSkills)
	}

	if len(records) > maxRecords {
		fmt.Fprintf(&b, "\n... and %d more\n", len(records)-maxRecords)
	}
	return b.String()
}

func writeRecord(b *strings.Builder, n int, r types.CandidateRecord, maxSkills int) {
	fmt.Fprintf(b, "%d. %s\n", n, value(r.Name))
	fmt.Fprintf(b, "   Position:   %s\n", value(r.Position))
	fmt.Fprintf(b, "   Level:      %s\n", value(r.Level))
	fmt.Fprintf(b, "   Location:   %s\n", value(r.Location))
	fmt.Fprintf(b, "   Salary:     %s\n", value(r.SalaryExpectation))
	fmt.Fprintf(b, "   Experience: %s\n", value(r.Experience))
	fmt.Fprintf(b, "   Skills:     %s\n", skills(r.Skills, maxSkills))
	fmt.Fprintf(b, "   Contacts:   %s\n", value(r.Contacts))
	fmt.Fprintf(b, "   Source:     %s\n", value(r.SourceLink))
	fmt.Fprintf(b, "   Captured:   %s\n", captured(r.CapturedAt))
}

func skills(s []string, max int) string {
	if len(s) == 0 {
		return NotSpecified
	}
	if len(s) <= max {
		return strings.Join(s, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(s[:max], ", "), len(s)-max)
}

func captured(t time.Time) string {
	if t.IsZero() {
		return NotSpecified
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

// WebResults renders an aggregated search: header, per-backend counts in
// backend order, up to MaxPerBackend items per backend with a remainder
// note, then a global note when the total exceeds GlobalNoteAbove.
func WebResults(out search.Output, opts WebOptions) string {
	perBackend := orDefault(opts.MaxPerBackend, DefaultMaxPerBackend)
	noteAbove := orDefault(opts.GlobalNoteAbove, DefaultGlobalNoteAbove)

	var b strings.Builder
	fmt.Fprintf(&b, "Web search: %q\n", out.Query)
	fmt.Fprintf(&b, "Results: %d from %d sources\n", len(out.Items), len(out.Outcomes))

	b.WriteString("\nBy source:\n")
	for _, oc := range out.Outcomes {
		fmt.Fprintf(&b, "  %s: %d", label(oc.Backend), len(oc.Items))
		if oc.Err != nil {
			b.WriteString(" (unavailable)")
		}
		b.WriteString("\n")
	}

	if len(out.Items) == 0 {
		b.WriteString("\nNo results found.\n")
		return b.String()
	}

	for _, oc := range out.Outcomes {
		items := oc.Items
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", label(oc.Backend))
		for i, it := range items {
			if i == perBackend {
				break
			}
			fmt.Fprintf(&b, "  %d. %s\n", i+1, value(it.Title))
			fmt.Fprintf(&b, "     %s\n", value(it.Snippet))
			fmt.Fprintf(&b, "     %s\n", value(it.Link))
		}
		if len(items) > perBackend {
			fmt.Fprintf(&b, "  ... and %d more from %s\n", len(items)-perBackend, oc.Backend.Name)
		}
	}

	if len(out.Items) > noteAbove {
		fmt.Fprintf(&b, "\nShowing at most %d results per source; %d results in total.\n", perBackend, len(out.Items))
	}
	return b.String()
}

func label(d types.BackendDescriptor) string {
	if d.Icon == "" {
		return fmt.Sprintf("%s (%s)", d.Name, d.Domain)
	}
	return fmt.Sprintf("%s %s (%s)", d.Icon, d.Name, d.Domain)
}

// Unavailable renders the fixed notice for an operation whose collaborator
// is not configured.
func Unavailable(what, instructions string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is unavailable: it is not configured.\n", what)
	if instructions != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(instructions, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// ChannelInstructions explains how to follow channelURL by hand and how to
// enable automatic reading.
func ChannelInstructions(channelURL string) string {
	var b strings.Builder
	b.WriteString("To read the channel manually:\n")
	fmt.Fprintf(&b, "  1. Open %s\n", channelURL)
	b.WriteString("  2. Subscribe to the channel\n")
	b.WriteString("  3. Read new resumes in the channel feed\n")
	b.WriteString("\nTo read it automatically, set channel.username in talent-radar.yaml\n")
	b.WriteString("or TALENT_RADAR_CHANNEL_USERNAME in the environment or .env.\n")
	return b.String()
}

// SearchInstructions explains how to configure the Google transport.
func SearchInstructions() string {
	return "Use the duckduckgo transport, or for google put the API key and engine id in\n" +
		".secrets/google-api-key and .secrets/google-cx.\n"
}
