package dedup

import (
	"strings"

	"go-leadgen-automation/internal/models"

	"golang.org/x/text/cases"
)

// Key is the case-insensitive (title, company) identity of a posting.
type Key struct {
	Title   string
	Company string
}

var folder = cases.Fold()

func KeyOf(title, company string) Key {
	return Key{
		Title:   folder.String(strings.TrimSpace(title)),
		Company: folder.String(strings.TrimSpace(company)),
	}
}

// Set remembers identities seen during one aggregation. It is not safe for concurrent use.
type Set struct {
	seen map[Key]struct{}
}

func NewSet() *Set {
	return &Set{seen: make(map[Key]struct{})}
}

// Add records p and reports whether it was new. Later duplicates return false.
func (s *Set) Add(p models.NormalizedPosting) bool {
	key := KeyOf(p.Title, p.Company)
	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Len is the number of distinct identities added so far.
func (s *Set) Len() int {
	return len(s.seen)
}
