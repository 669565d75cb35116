// pkg/constants/constants.go
package constants

//============== DATE FORMATS ==============

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

//============== CACHE KEYS ==============

// Key prefixes for Redis.
const (
	// Annual report snapshot.
	// Format: annual_report:<year>:<today> -> JSON
	CacheKeyAnnualReport = "annual_report:%d:%s"

	// Prefix used to drop every cached report after a work order change.
	CacheKeyAnnualReportPrefix = "annual_report:"
)

//============== HISTORY ACTORS ==============

// SystemActor signs history entries written without an authenticated user (CLI, seeders).
const SystemActor = "system"
