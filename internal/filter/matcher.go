package filter

import (
	"strings"

	"go-leadgen-automation/internal/models"
)

// Matches reports whether a posting satisfies every active constraint of q.
// A location constraint also admits postings labeled remote.
func Matches(p models.NormalizedPosting, q models.Query) bool {
	if models.Active(q.Location) {
		location := strings.ToLower(p.Location)
		want := strings.ToLower(strings.TrimSpace(q.Location))
		if !strings.Contains(location, want) && !strings.Contains(location, "remote") {
			return false
		}
	}

	if models.Active(q.Field) {
		if !strings.Contains(strings.ToLower(p.Field), strings.ToLower(strings.TrimSpace(q.Field))) {
			return false
		}
	}

	if models.Active(q.Experience) {
		if !strings.Contains(strings.ToLower(p.Experience), strings.ToLower(strings.TrimSpace(q.Experience))) {
			return false
		}
	}

	return true
}

// Apply keeps the postings that match q, preserving order.
func Apply(postings []models.NormalizedPosting, q models.Query) []models.NormalizedPosting {
	out := make([]models.NormalizedPosting, 0, len(postings))
	for _, p := range postings {
		if Matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}
