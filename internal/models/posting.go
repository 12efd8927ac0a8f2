package models

import "strings"

// Source identifies a listing site.
type Source string

const (
	SourceRemoteOK       Source = "remoteok"
	SourceIndeed         Source = "indeed"
	SourceStackOverflow  Source = "stackoverflow"
	SourceAngelList      Source = "angelco"
	SourceWeWorkRemotely Source = "we_work_remotely"
)

var displayNames = map[Source]string{
	SourceRemoteOK:       "RemoteOK",
	SourceIndeed:         "Indeed",
	SourceStackOverflow:  "Stack Overflow",
	SourceAngelList:      "AngelList",
	SourceWeWorkRemotely: "We Work Remotely",
}

// DefaultSources is the order adapters run in when the caller does not pick any.
func DefaultSources() []Source {
	return []Source{
		SourceRemoteOK,
		SourceIndeed,
		SourceStackOverflow,
		SourceAngelList,
		SourceWeWorkRemotely,
	}
}

// DisplayName is the value written to the source column.
func (s Source) DisplayName() string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return string(s)
}

func (s Source) Valid() bool {
	_, ok := displayNames[s]
	return ok
}

// ParseSources converts user supplied ids ("remoteok, Indeed") into sources.
// Unknown ids are returned separately so callers can report them.
func ParseSources(ids []string) (sources []Source, unknown []string) {
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		s := Source(id)
		if !s.Valid() {
			unknown = append(unknown, id)
			continue
		}
		sources = append(sources, s)
	}
	return sources, unknown
}

// RawPosting is one record as extracted from a results page.
type RawPosting struct {
	Title        string
	Company      string
	Tags         []string
	Link         string
	Source       Source
	LocationHint string
}

// NormalizedPosting is the canonical record. Field and Experience are always set.
type NormalizedPosting struct {
	Title      string `json:"title"`
	Company    string `json:"company"`
	Tags       string `json:"tags"`
	Link       string `json:"link"`
	Location   string `json:"location"`
	Field      string `json:"field"`
	Experience string `json:"experience"`
	Source     string `json:"source"`
}

// RankedPosting is a normalized posting with the relevance score appended by the ranker.
type RankedPosting struct {
	NormalizedPosting
	RelevanceScore float64 `json:"relevance_score"`
}

// Any is the literal that disables a constraint.
const Any = "any"

// Query carries the search keyword and the optional constraints.
type Query struct {
	Keyword    string `json:"keyword"`
	Location   string `json:"location,omitempty"`
	Field      string `json:"field,omitempty"`
	Experience string `json:"experience,omitempty"`
}

// Active reports whether a constraint value restricts anything.
func Active(constraint string) bool {
	c := strings.TrimSpace(constraint)
	return c != "" && !strings.EqualFold(c, Any)
}
