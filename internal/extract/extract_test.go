// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/talent-radar/pkg/types"
)

const ivanResume = "Меня зовут Иван Петров. Должность: Frontend разработчик. Navyki: React, TypeScript. " +
	"Опыт работы: 3 года. Телефон: +79001234567"

func newTestExtractor() *Extractor {
	return New(types.ExtractConfig{})
}

func TestExtractScenario(t *testing.T) {
	r, ok := newTestExtractor().Extract(ivanResume)
	require.True(t, ok)

	assert.Equal(t, "Иван Петров", r.Name)
	assert.Contains(t, r.Position, "Frontend")
	assert.Contains(t, r.Skills, "React")
	assert.Contains(t, r.Skills, "TypeScript")
	assert.Contains(t, r.Experience, "3")
	assert.Contains(t, r.Contacts, "+79001234567")
	assert.Equal(t, ivanResume, r.RawText)
}

func TestExtractScenarioFieldValues(t *testing.T) {
	r, ok := newTestExtractor().Extract(ivanResume)
	require.True(t, ok)

	want := types.CandidateRecord{
		Name:       "Иван Петров",
		Position:   "Frontend разработчик",
		Skills:     []string{"React", "TypeScript"},
		Experience: "3 года",
		Contacts:   "Телефон: +79001234567",
		RawText:    ivanResume,
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"short fragment", "Ищу работу, React"},
		{"just under threshold", strings.Repeat("я", DefaultMinLength-1)},
		{"job posting", "Вакансия: требуется Senior Go разработчик в команду платформы, удалённая работа"},
		{"english posting", "We are hiring! Vacancy for a Python engineer, Docker and Kubernetes required"},
	}
	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := e.Extract(tt.text)
			assert.False(t, ok)
			assert.True(t, errors.Is(e.Check(tt.text), types.ErrMalformedInput))
		})
	}
}

func TestExtractAcceptsAmbiguousText(t *testing.T) {
	text := "Это не вакансия, это моё резюме: ищу работу Python разработчиком, опыт 5 лет"
	r, ok := newTestExtractor().Extract(text)
	require.True(t, ok)
	assert.NoError(t, newTestExtractor().Check(text))
	assert.Equal(t, "5 лет", r.Experience)
}

func TestExtractMinLengthIsConfigurable(t *testing.T) {
	text := "Резюме: Go, SQL"
	_, ok := New(types.ExtractConfig{MinLength: 10}).Extract(text)
	assert.True(t, ok)
	_, ok = New(types.ExtractConfig{MinLength: 100}).Extract(text)
	assert.False(t, ok)
}

func TestExtractCountsCharactersNotBytes(t *testing.T) {
	// 44 Cyrillic letters are 88 bytes; the threshold is in characters.
	text := "резюме " + strings.Repeat("я", DefaultMinLength-7)
	_, ok := newTestExtractor().Extract(text)
	assert.True(t, ok)
	_, ok = newTestExtractor().Extract(text[:len(text)-2])
	assert.False(t, ok)
}

func TestExtractIsDeterministic(t *testing.T) {
	e := newTestExtractor()
	inputs := []string{
		ivanResume,
		"Резюме\nНавыки:\n- Go\n- PostgreSQL\n- Docker\n\nО себе: люблю код и чистую архитектуру",
		"Ищу работу JavaScript developer, опыт 2 года, Remote, telegram: @js_dev",
	}
	for _, in := range inputs {
		first, ok1 := e.Extract(in)
		second, ok2 := e.Extract(in)
		require.Equal(t, ok1, ok2)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Extract(%q) not deterministic (-first +second):\n%s", in, diff)
		}
		assert.Equal(t, in, first.RawText)
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"label", "Резюме\nИмя: Анна Смирнова\nОпыт работы: 5 лет в разработке", "Анна Смирнова"},
		{"introduction", "Меня зовут Олег, ищу работу backend разработчиком на Go", "Олег"},
		{"english", "My name is John Smith. Looking for work as Backend developer", "John Smith"},
		{"first line", "Ольга Кузнецова\nИщу работу дизайнером интерфейсов, портфолио по запросу", "Ольга Кузнецова"},
		{"latin first line", "John Smith\nLooking for work as Backend developer, 3 years of Go", "John Smith"},
		{"latin role line is not a name", "Senior Developer\nLooking for work, 5 years with Go and Kubernetes", types.Unspecified},
		{"missing", "ищу работу frontend разработчиком, опыт 3 года, React и Vue", types.Unspecified},
	}
	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := e.Extract(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, r.Name)
		})
	}
}

func TestExtractPositionLevelLocation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		position string
		level    string
		location string
	}{
		{
			name:     "vocabulary",
			text:     "Ищу работу. Senior Python developer, опыт 5 лет, удаленно",
			position: "Python developer",
			level:    "Senior",
			location: "удаленно",
		},
		{
			name:     "javascript is not java",
			text:     "Ищу работу JavaScript developer, опыт 2 года, Remote",
			position: "JavaScript developer",
			location: "Remote",
		},
		{
			name:     "labels",
			text:     "Резюме\nДолжность: Аналитик данных\nГород: Санкт-Петербург\nОпыт работы: 2 года",
			position: "Аналитик данных",
			location: "Санкт-Петербург",
		},
		{
			name:     "city vocabulary and canonical level",
			text:     "Резюме Java разработчика, Москва, опыт работы 6 лет, уровень SENIOR",
			position: "Java разработчика",
			level:    "Senior",
			location: "Москва",
		},
		{
			name:     "nothing known",
			text:     "Ищу работу, готов учиться всему новому и работать в дружной команде",
			position: types.Unspecified,
		},
	}
	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := e.Extract(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.position, r.Position)
			assert.Equal(t, tt.level, r.Level)
			assert.Equal(t, tt.location, r.Location)
		})
	}
}

func TestExtractSalary(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"label", "Резюме. Зарплата: от 150 000 руб. Опыт работы 4 года", "от 150 000 руб"},
		{"from amount", "Резюме: Python разработчик, от 300000 рублей в месяц", "300000 рублей"},
		{"range with unit", "Ищу работу frontend разработчиком, ожидания 200-250k, Москва", "200-250k"},
		{"years are not money", "Ищу работу React разработчиком, опыт от 3 лет, готов к релокации", ""},
	}
	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := e.Extract(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, r.SalaryExpectation)
		})
	}
}

func TestExtractSkills(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "bulleted block ends at blank line",
			text: "Резюме\nНавыки:\n- Go\n- PostgreSQL\n- Docker\n\nО себе: люблю код и чистую архитектуру",
			want: []string{"Go", "PostgreSQL", "Docker"},
		},
		{
			name: "mixed delimiters keep duplicates",
			text: "Backend engineer. Skills: Go, Docker, Go; Kubernetes • Redis",
			want: []string{"Go", "Docker", "Go", "Kubernetes", "Redis"},
		},
		{
			name: "run-on item dropped",
			text: "Навыки: Go, я очень люблю писать код на разных языках программирования каждый день, SQL",
			want: []string{"Go", "SQL"},
		},
		{
			name: "spaced dash closes the block",
			text: "Резюме. Стек: Go; Rust; C++ — опыт 2+ года, tg @ivan_dev",
			want: []string{"Go", "Rust", "C++"},
		},
		{
			name: "handle closes the block",
			text: "Резюме\nНавыки: Go, SQL, tg @ivan_dev\n\nГотов к переезду в другой город",
			want: []string{"Go", "SQL"},
		},
		{
			name: "hyphenated skill stays whole",
			text: "Резюме\nНавыки: Node-RED, CI-CD, Go\n\nГотов к переезду в другой город",
			want: []string{"Node-RED", "CI-CD", "Go"},
		},
		{
			name: "no section",
			text: "Ищу работу frontend разработчиком, опыт 3 года, портфолио по запросу",
			want: nil,
		},
	}
	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := e.Extract(tt.text)
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, r.Skills); diff != "" {
				t.Errorf("Skills mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractContacts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "all kinds in order",
			text: "Резюме Go разработчика. Telegram: @ivan_dev, email: ivan@example.com, тел: +7 (900) 123-45-67",
			want: "Telegram: @ivan_dev, email: ivan@example.com, тел: +7 (900) 123-45-67",
		},
		{
			name: "bare email is not a handle",
			text: "Ищу работу QA инженером, пишите на anna.qa@mail.ru или звоните",
			want: "anna.qa@mail.ru",
		},
		{
			name: "none",
			text: "Ищу работу QA инженером, напишите в личные сообщения канала",
			want: "",
		},
	}
	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := e.Extract(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, r.Contacts)
		})
	}
}

func TestExtractMessage(t *testing.T) {
	e := newTestExtractor()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sent := time.Date(2026, 2, 27, 9, 30, 0, 0, time.UTC)

	r, ok := e.ExtractMessage(types.ChannelMessage{ID: 42, Text: ivanResume, Timestamp: sent}, "https://t.me/jobs/42", now)
	require.True(t, ok)
	assert.Equal(t, "https://t.me/jobs/42", r.SourceLink)
	assert.Equal(t, sent, r.CapturedAt)

	r, ok = e.ExtractMessage(types.ChannelMessage{ID: 43, Text: ivanResume}, "https://t.me/jobs/43", now)
	require.True(t, ok)
	assert.Equal(t, now, r.CapturedAt)

	_, ok = e.ExtractMessage(types.ChannelMessage{ID: 44, Text: "коротко"}, "https://t.me/jobs/44", now)
	assert.False(t, ok)
}

func TestFieldOrder(t *testing.T) {
	var names []string
	for _, f := range fields {
		names = append(names, f.name)
	}
	want := []string{"name", "position", "level", "location", "salary", "skills", "experience", "contacts"}
	assert.Equal(t, want, names)
}

func TestChainFirstMatchWins(t *testing.T) {
	// The label rule must beat the vocabulary rule even though the
	// vocabulary keyword appears earlier in the text.
	text := "Python и Django. Должность: тимлид команды интеграций"
	assert.Equal(t, "тимлид команды интеграций", positionRules.first(text))
}
