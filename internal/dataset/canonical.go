package dataset

import (
	"sort"
	"strings"

	"sopulse/internal/config"
)

// dashMojibake lists the corrupted dash byte sequences that appear in
// company-size labels across survey vintages: UTF-8 en/em dashes
// re-decoded as Windows-1252, the dashes themselves, and the Unicode
// replacement character.
var dashMojibake = []string{
	"â€“",
	"â€”",
	"–",
	"—",
	"�",
}

// CanonicalWorkMode maps a raw work-arrangement answer onto the
// canonical vocabulary (remote, hybrid, on_site). Matching is on the
// trimmed, lowercased value; an unrecognized non-missing answer passes
// through unchanged so new survey wordings surface in the output
// instead of silently vanishing. Missing stays missing.
func CanonicalWorkMode(raw NullString) NullString {
	if !raw.Valid {
		return raw
	}

	key := strings.ToLower(strings.TrimSpace(raw.Value))
	if canonical, ok := config.WorkModeSynonyms[key]; ok {
		return String(canonical)
	}
	return String(key)
}

// CleanCompanySize repairs corrupted dash characters in a company-size
// label ("100â€“999" becomes "100-999") and trims surrounding space.
// Missing stays missing.
func CleanCompanySize(raw NullString) NullString {
	if !raw.Valid {
		return raw
	}

	cleaned := raw.Value
	for _, seq := range dashMojibake {
		cleaned = strings.ReplaceAll(cleaned, seq, "-")
	}
	return String(strings.TrimSpace(cleaned))
}

// SortCompanySizes orders company-size labels by headcount rank.
// Labels outside the rank table sort after all known sizes; the sort
// is stable so equal-rank unknowns keep their input order.
func SortCompanySizes(sizes []string) []string {
	out := make([]string, len(sizes))
	copy(out, sizes)

	sort.SliceStable(out, func(i, j int) bool {
		return SizeRank(out[i]) < SizeRank(out[j])
	})
	return out
}

// unknownSizeRank sorts unrecognized labels after every known bucket
const unknownSizeRank = 999

// SizeRank returns the ordering rank of a company-size label.
// Unrecognized labels rank after every known bucket.
func SizeRank(size string) int {
	if rank, ok := config.CompanySizeRanks[size]; ok {
		return rank
	}
	return unknownSizeRank
}
