package journal

import "strings"

// FuzzyMatch returns true if query fuzzy-matches target.
// Matching is case-insensitive and succeeds on substring match or if
// the query characters appear as a subsequence in the target.
func FuzzyMatch(target, query string) bool {
	if query == "" {
		return true
	}
	t := strings.ToLower(target)
	q := strings.ToLower(query)
	if strings.Contains(t, q) {
		return true
	}
	// subsequence match (rune-aware)
	qr := []rune(q)
	i := 0
	for _, ch := range t {
		if i < len(qr) && qr[i] == ch {
			i++
			if i >= len(qr) {
				return true
			}
		}
	}
	return false
}

// fuzzyMatchesRun returns true if the run matches the query by checking
// id, status, operator, and step names/commands.
func fuzzyMatchesRun(run *Run, query string) bool {
	if FuzzyMatch(run.ID, query) || FuzzyMatch(run.Status, query) {
		return true
	}
	if run.Operator.Valid && FuzzyMatch(run.Operator.String, query) {
		return true
	}
	for _, s := range run.Steps {
		if FuzzyMatch(s.Name, query) || FuzzyMatch(s.Command, query) {
			return true
		}
	}
	return false
}

// FilterRuns returns runs fuzzy-matching query, newest first.
func (r *Repository) FilterRuns(query string) ([]Run, error) {
	runs, err := r.ListRuns()
	if err != nil {
		return nil, err
	}
	var out []Run
	for i := range runs {
		if fuzzyMatchesRun(&runs[i], query) {
			out = append(out, runs[i])
		}
	}
	return out, nil
}
