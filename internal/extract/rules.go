// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/talent-radar/pkg/types"
)

// Go's \b only knows ASCII word characters, so patterns over Cyrillic words
// anchor on an explicit letter-class boundary instead.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:[^\p{L}\p{N}_]|$)`
)

// rule pairs a pattern with the function that turns its submatches into a
// field value. An empty pick result counts as no match.
type rule struct {
	re   *regexp.Regexp
	pick func(m []string) string
}

// chain is an ordered list of rules; the first rule that yields a value wins.
type chain []rule

func (c chain) first(text string) string {
	for _, r := range c {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v := r.pick(m); v != "" {
			return v
		}
	}
	return ""
}

func group(m []string) string { return strings.TrimSpace(m[1]) }

// clipped returns group 1 cut at the first sentence break. Label values run
// to end of line, and single-line messages often carry several labels.
func clipped(m []string) string { return clipSentence(m[1]) }

var sentenceBreak = regexp.MustCompile(`\.\s`)

func clipSentence(s string) string {
	if loc := sentenceBreak.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "."))
}

var nameRules = chain{
	{
		re: regexp.MustCompile(`(?i)` + wordStart +
			`(?:(?:меня зовут|my name is|имя)[ \t]+|(?:имя|name)[ \t]*:[ \t]*)` +
			`(\p{L}+(?:[ \t]+\p{L}+){0,2})`),
		pick: group,
	},
	{
		// Capitalised two-word line at the very start of the text.
		re:   regexp.MustCompile(`^\s*([А-ЯЁ][а-яё]+[ \t]+[А-ЯЁ][а-яё]+)` + wordEnd),
		pick: group,
	},
	{
		// Latin capitalised pair must fill the whole first line, and must not
		// be a level or role ("Senior Developer").
		re:   regexp.MustCompile(`^\s*([A-Z][a-z]+[ \t]+[A-Z][a-z]+)[ \t]*\n`),
		pick: latinName,
	},
}

func latinName(m []string) string {
	v := group(m)
	if levelRules.first(v) != "" || positionRules.first(v) != "" || roleWord.MatchString(v) {
		return ""
	}
	return v
}

var roleWord = regexp.MustCompile(`(?i)\b(?:developer|engineer|designer|manager|analyst|resume|looking)\b`)

var positionRules = chain{
	{
		re: regexp.MustCompile(`(?i)` + wordStart +
			`(?:(?:должность|позиция|специальность)[ \t]*:?|position[ \t]*:)[ \t]*([^\n]+)`),
		pick: clipped,
	},
	{
		re: regexp.MustCompile(`(?i)\b(?:Frontend|Front-end|Backend|Back-end|Fullstack|Full-stack|` +
			`JavaScript|TypeScript|React|Vue|Angular|Node\.?js|Golang|Python|PHP|Java|DevOps|QA|` +
			`Mobile|iOS|Android|Flutter|Designer|UI/UX|Product Manager|Project Manager|Analyst|Data Scientist)\b` +
			`(?:[ \t]*(?:разработчик|developer|engineer|инженер|дизайнер|менеджер|аналитик)\p{L}*)?`),
		pick: func(m []string) string { return strings.TrimSpace(m[0]) },
	},
}

var levelRules = chain{
	{
		re:   regexp.MustCompile(`(?i)\b(Junior|Middle|Senior|Lead|Intern|Trainee)\b`),
		pick: func(m []string) string { return canonicalLevel(m[1]) },
	},
}

func canonicalLevel(s string) string {
	for _, l := range types.Levels {
		if strings.EqualFold(l, s) {
			return l
		}
	}
	return ""
}

var locationRules = chain{
	{
		re:   regexp.MustCompile(`(?i)` + wordStart + `(?:город|локация|location)[ \t]*:?[ \t]*([^\n,]+)`),
		pick: clipped,
	},
	{
		re: regexp.MustCompile(`(?i)` + wordStart +
			`(Москва|Санкт-Петербург|СПб|Питер|Екатеринбург|Новосибирск|Казань|Нижний Новгород|` +
			`Краснодар|Удал[её]нно|Remote|Релокация)` + wordEnd),
		pick: group,
	},
}

// Amount fragments for salary ranges. A bare one- or two-digit number is
// never a salary on its own ("от 3 лет"), so small numbers need a unit.
const (
	amount   = `(?:\d{1,3}(?:[ \t]\d{3})+|\d{3,}|\d+(?:[.,]\d+)?[ \t]*(?:k|к|тыс\.?))`
	lower    = `\d+(?:[ \t]\d{3})*(?:[ \t]*(?:k|к|тыс\.?))?`
	currency = `(?:[ \t]*(?:руб(?:лей|\.)?|₽|rub|usd|\$|€|eur))?`
)

var salaryRules = chain{
	{
		re:   regexp.MustCompile(`(?i)` + wordStart + `(?:зарплата|зп|оклад|salary)[ \t]*:?[ \t]*([^\n]+)`),
		pick: clipped,
	},
	{
		re:   regexp.MustCompile(`(?i)` + wordStart + `(?:от|from)[ \t]*(` + amount + currency + `)(?:[^\p{L}\d]|$)`),
		pick: group,
	},
	{
		re:   regexp.MustCompile(`(?i)(?:^|[^\d\-+])(` + lower + `[ \t]*[-–—][ \t]*` + amount + currency + `)(?:[^\p{L}\d\-]|$)`),
		pick: group,
	},
}

var experienceRules = chain{
	{
		re: regexp.MustCompile(`(?i)` + wordStart +
			`(?:опыт работы[ \t]*:?|опыт[ \t]*:|experience[ \t]*:)[ \t]*([^\n]+)`),
		pick: clipped,
	},
	{
		re:   regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?\+?[ \t]*(?:лет|года?|years?|yrs)(?:[ \t]+опыта)?)` + wordEnd),
		pick: group,
	},
}

// Contact kinds are matched independently and joined in this order.
var contactRules = []chain{
	{ // messenger handle
		{
			re: regexp.MustCompile(`(?i)` + wordStart +
				`((?:telegram|телеграм|тг|tg)(?:[ \t]*:[ \t]*@?|[ \t]+@)[A-Za-z0-9_]{3,32})`),
			pick: group,
		},
		{
			re:   regexp.MustCompile(`(?:^|[^\w.@])(@[A-Za-z][A-Za-z0-9_]{3,31})`),
			pick: group,
		},
	},
	{ // email
		{
			re: regexp.MustCompile(`(?i)` + wordStart +
				`((?:e-mail|email|почта)[ \t]*:?[ \t]*[\w.+-]+@[\w-]+(?:\.[\w-]+)+)`),
			pick: group,
		},
		{
			re:   regexp.MustCompile(`([\w.+-]+@[\w-]+(?:\.[\w-]+)+)`),
			pick: group,
		},
	},
	{ // phone
		{
			re: regexp.MustCompile(`(?i)` + wordStart +
				`((?:телефон|тел|phone)\.?[ \t]*:?[ \t]*\+?\d[\d \t\-()]{5,}\d)`),
			pick: group,
		},
		{
			re:   regexp.MustCompile(`(\+\d[\d \t\-()]{8,}\d)`),
			pick: group,
		},
	},
}

// skillsSection finds a labelled skills block: the label must be followed by
// a colon or a line break, and the block runs until a blank line.
var skillsSection = regexp.MustCompile(`(?i)` + wordStart +
	`(?:навыки|navyki|skills|стек|stack|технологии|technologies)(?:[ \t]*:[ \t]*\n?|[ \t]*\n)[ \t]*([^\n]+(?:\n[^\n]+)*)`)

// nextLabel ends a skills block at the next field label.
var nextLabel = regexp.MustCompile(`(?i)` + wordStart +
	`((?:опыт работы|опыт|experience|телефон|тел|phone|e-mail|email|почта|telegram|тг|tg|контакты|contacts|` +
	`зарплата|зп|оклад|salary|город|локация|location|должность|позиция|position|образование|education|о себе|about)[ \t]*:)`)

// blockEnd ends a skills block mid-line: at a spaced dash opening a new
// clause (group 1), or at a messenger handle (group 2).
var blockEnd = regexp.MustCompile(`(?i)(?:\S([ \t]+[-–—][ \t]+)|(?:^|[ \t,;])((?:(?:tg|telegram|тг|телеграм)[ \t]*:?[ \t]*)?@[A-Za-z]))`)

var skillSplit = regexp.MustCompile(`[,;•\n]`)

// maxSkillLen rejects run-on sentences mistaken for a single skill.
const maxSkillLen = 50

func extractSkills(text string) []string {
	m := skillsSection.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	section := m[1]
	if loc := nextLabel.FindStringSubmatchIndex(section); loc != nil {
		section = section[:loc[2]]
	}
	if loc := blockEnd.FindStringSubmatchIndex(section); loc != nil {
		cut := loc[2]
		if cut < 0 {
			cut = loc[4]
		}
		section = section[:cut]
	}

	var skills []string
	for _, part := range skillSplit.Split(section, -1) {
		s := strings.TrimSpace(part)
		s = strings.TrimLeft(s, "-*· \t")
		s = strings.TrimSpace(strings.TrimRight(s, "."))
		if n := len([]rune(s)); n > 0 && n < maxSkillLen {
			skills = append(skills, s)
		}
	}
	return skills
}

func extractContacts(text string) string {
	var found []string
	for _, kind := range contactRules {
		if v := kind.first(text); v != "" {
			found = append(found, v)
		}
	}
	return strings.Join(found, ", ")
}
