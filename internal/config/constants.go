package config

import "time"

// Application constants for the SOPulse survey analytics system
const (
	// Application Info
	AppName    = "SOPulse"
	AppVersion = "1.2.0"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// File Paths (relative to working directory)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultReportsDir = "data/reports"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Survey Data Processing
	DefaultTopLanguages  = 12
	DefaultTopFrameworks = 8
	DefaultClipLowerPct  = 0.01
	DefaultClipUpperPct  = 0.99

	// The pandemic marker year used by the dashboards
	CovidYear = 2020
)

// WorkModeSynonyms maps raw survey answers to the canonical work-mode
// vocabulary. Lookup happens on trimmed, lowercased input.
var WorkModeSynonyms = map[string]string{
	"onsite":       "on_site",
	"on-site":      "on_site",
	"office":       "on_site",
	"on_site":      "on_site",
	"hybrid":       "hybrid",
	"remote":       "remote",
	"fully remote": "remote",
}

// CompanySizeRanks orders the known company-size buckets. Values outside
// this table sort after all known sizes.
var CompanySizeRanks = map[string]int{
	"1-9":     1,
	"10-99":   2,
	"100-999": 3,
	"1000+":   4,
}

// DefaultFrontEndFrameworks returns the built-in front-end cohort set
func DefaultFrontEndFrameworks() []string {
	return []string{"React", "Angular", "Vue.js", "Svelte", "Ember.js", "Next.js", "Nuxt.js"}
}

// DefaultBackEndFrameworks returns the built-in back-end cohort set
func DefaultBackEndFrameworks() []string {
	return []string{"Django", "Flask", "Spring", "Express", "Laravel", "FastAPI", "Ruby on Rails", "ASP.NET", "ASP.NET Core"}
}
