package filter

// Rule pairs a label with the cues that select it. Tables are ordered: the first
// label with any matching cue wins, so reordering a table changes results.
type Rule struct {
	Label string
	Cues  []string
}

const (
	DefaultLocation   = "Remote"
	DefaultField      = "General"
	DefaultExperience = "Not specified"
)

var locationRules = []Rule{
	{Label: "US", Cues: []string{"us"}},
	{Label: "Europe", Cues: []string{"europe"}},
	{Label: "Worldwide", Cues: []string{"worldwide"}},
	{Label: "Remote", Cues: []string{"remote"}},
}

var experienceRules = []Rule{
	{Label: "fresher", Cues: []string{"entry", "junior", "fresher", "0-1", "0-2", "intern"}},
	{Label: "mid", Cues: []string{"mid", "intermediate", "2-3", "3-4", "2-5"}},
	{Label: "senior", Cues: []string{"senior", "lead", "principal", "5+", "6+", "7+", "staff"}},
}

var fieldRules = []Rule{
	{Label: "AI", Cues: []string{"ai", "artificial intelligence", "machine learning", "ml", "deep learning", "neural"}},
	{Label: "DS", Cues: []string{"data science", "data scientist", "analytics", "bi"}},
	{Label: "ML", Cues: []string{"machine learning", "ml engineer", "mlops", "ai engineer"}},
	{Label: "Frontend", Cues: []string{"frontend", "front-end", "react", "vue", "angular", "javascript", "typescript"}},
	{Label: "Backend", Cues: []string{"backend", "back-end", "python", "java", "node", "api", "server"}},
	{Label: "Nursing", Cues: []string{"nurse", "nursing", "healthcare", "medical", "patient"}},
	{Label: "DevOps", Cues: []string{"devops", "sre", "infrastructure", "aws", "azure", "kubernetes"}},
	{Label: "Mobile", Cues: []string{"mobile", "ios", "android", "react native", "flutter", "swift"}},
	{Label: "Design", Cues: []string{"design", "ui", "ux", "graphic", "visual"}},
	{Label: "Marketing", Cues: []string{"marketing", "growth", "seo", "content", "social media"}},
}

// Fields lists the field labels in evaluation order, followed by the fallback.
func Fields() []string {
	return labels(fieldRules, DefaultField)
}

// ExperienceLevels lists the experience labels in evaluation order, followed by the fallback.
func ExperienceLevels() []string {
	return labels(experienceRules, DefaultExperience)
}

// Locations lists the location buckets.
func Locations() []string {
	return labels(locationRules, "")
}

func labels(rules []Rule, fallback string) []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.Label)
	}
	if fallback != "" {
		out = append(out, fallback)
	}
	return out
}
