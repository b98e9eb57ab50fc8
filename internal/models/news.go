package models

import "time"

// Headline is one entry pulled from a feed. It lives only for the
// duration of a single run and is never persisted itself.
type Headline struct {
	Title       string
	Link        string
	Published   time.Time
	ImageURL    string
	Description string
	Source      string
}

// Candidate pairs a headline with the keywords that qualified it.
type Candidate struct {
	Headline Headline
	Keywords []string
}

// KeywordGroup is one named topic bucket of keywords. A headline may
// match several groups; matches are merged per headline.
type KeywordGroup struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}
