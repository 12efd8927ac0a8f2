package filter

import (
	"strings"

	"go-leadgen-automation/internal/models"
)

// Normalize derives location, field and experience for a raw posting.
func Normalize(raw models.RawPosting) models.NormalizedPosting {
	title := strings.ToLower(raw.Title)
	tags := make([]string, len(raw.Tags))
	for i, tag := range raw.Tags {
		tags[i] = strings.ToLower(tag)
	}

	return models.NormalizedPosting{
		Title:      raw.Title,
		Company:    raw.Company,
		Tags:       strings.Join(raw.Tags, ", "),
		Link:       raw.Link,
		Location:   classifyLocation(tags, strings.ToLower(raw.LocationHint)),
		Field:      classify(fieldRules, title, tags, DefaultField),
		Experience: classify(experienceRules, title, tags, DefaultExperience),
		Source:     raw.Source.DisplayName(),
	}
}

// classify returns the label of the first rule with a cue found in the title or any tag.
func classify(rules []Rule, title string, tags []string, fallback string) string {
	for _, rule := range rules {
		for _, cue := range rule.Cues {
			if strings.Contains(title, cue) || anyContains(tags, cue) {
				return rule.Label
			}
		}
	}
	return fallback
}

// classifyLocation checks tags in order, then the site supplied location.
func classifyLocation(tags []string, hint string) string {
	texts := tags
	if hint != "" {
		texts = append(append([]string{}, tags...), hint)
	}
	for _, text := range texts {
		for _, rule := range locationRules {
			for _, cue := range rule.Cues {
				if strings.Contains(text, cue) {
					return rule.Label
				}
			}
		}
	}
	return DefaultLocation
}

func anyContains(texts []string, cue string) bool {
	for _, t := range texts {
		if strings.Contains(t, cue) {
			return true
		}
	}
	return false
}
