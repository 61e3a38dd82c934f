// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BackendDescriptor names an external search source. Domain scopes the
// query to that source ("site:<domain>"); Icon is a presentation hint.
type BackendDescriptor struct {
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	Domain string `json:"domain" yaml:"domain" mapstructure:"domain"`
	Icon   string `json:"icon,omitempty" yaml:"icon,omitempty" mapstructure:"icon"`
}

// DefaultBackends is the fixed priority order of job boards searched when
// configuration does not override it.
var DefaultBackends = []BackendDescriptor{
	{Name: "HeadHunter", Domain: "hh.ru", Icon: "🔴"},
	{Name: "Habr Career", Domain: "career.habr.com", Icon: "🟢"},
	{Name: "LinkedIn", Domain: "linkedin.com", Icon: "🔵"},
	{Name: "Avito Работа", Domain: "avito.ru", Icon: "🟣"},
}

// Hit is one raw result returned by a search transport.
type Hit struct {
	Title   string `json:"title" yaml:"title"`
	Snippet string `json:"snippet" yaml:"snippet"`
	Link    string `json:"link" yaml:"link"`
}

// SearchResultItem is a Hit tagged with the backend that produced it.
type SearchResultItem struct {
	SourceName   string `json:"source_name" yaml:"source_name"`
	SourceDomain string `json:"source_domain" yaml:"source_domain"`
	SourceIcon   string `json:"source_icon,omitempty" yaml:"source_icon,omitempty"`
	Title        string `json:"title" yaml:"title"`
	Snippet      string `json:"snippet" yaml:"snippet"`
	Link         string `json:"link" yaml:"link"`
}
