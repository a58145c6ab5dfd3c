package analytics

import "strings"

// Cohort labels produced by Classify
const (
	CohortFrontEnd = "Front-End"
	CohortBackEnd  = "Back-End"
	CohortOther    = "Other"
)

// CohortSets holds the framework cohort membership sets. Lookup is a
// case-insensitive exact match on the trimmed name.
type CohortSets struct {
	frontEnd map[string]struct{}
	backEnd  map[string]struct{}
}

// NewCohortSets builds cohort sets from the configured membership
// lists. Member names are normalized once here so classification is a
// plain map lookup.
func NewCohortSets(frontEnd, backEnd []string) CohortSets {
	return CohortSets{
		frontEnd: normalizeSet(frontEnd),
		backEnd:  normalizeSet(backEnd),
	}
}

func normalizeSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	return set
}

// Classify assigns a framework name to a cohort. The front-end set is
// checked before the back-end set; anything unmatched, including the
// empty string, lands in Other. This is a total function with no
// error path.
func (s CohortSets) Classify(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))

	if _, ok := s.frontEnd[key]; ok {
		return CohortFrontEnd
	}
	if _, ok := s.backEnd[key]; ok {
		return CohortBackEnd
	}
	return CohortOther
}
