package nickname

// Match is a successful classification.
type Match struct {
	Category Category
	Pattern  *Pattern
}

// Classify returns the first category in rules with a pattern that matches
// name, together with that pattern. Patterns are searched, not anchored.
// Priority is entirely the order of rules: callers that want denials to win
// put the bad category first. A nil Match means no category matched.
func Classify(name string, rules []CategoryRules) *Match {
	for _, cr := range rules {
		for _, re := range cr.Patterns {
			if re.MatchString(name) {
				return &Match{Category: cr.Category, Pattern: re}
			}
		}
	}
	return nil
}

// Source returns the matching pattern as written in the list.
func (m *Match) Source() string {
	return m.Pattern.String()
}
