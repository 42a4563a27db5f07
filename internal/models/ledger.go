package models

import (
	"fmt"
	"strings"
	"time"
)

// ScanDateLayout is the calendar-date key format used by the ledger.
const ScanDateLayout = "2006-01-02"

// ScanRecord is a single attendance scan. Each scan is stored as its own
// document in the `Attended` collection under a deterministic composite ID,
// so repeating a scan overwrites instead of duplicating and two students
// scanning concurrently never touch the same document.
type ScanRecord struct {
	ModuleCode    string    `json:"moduleCode"`
	Date          string    `json:"date"`
	StudentNumber string    `json:"studentNumber"`
	Email         string    `json:"email"`
	ScanTime      time.Time `json:"scanTime"`

	// ModuleDate is the composite equality field `module#date` used to query
	// all scans of one session with a single-field predicate.
	ModuleDate string `json:"moduleDate"`
}

// ScanID builds the composite document ID for a scan.
func ScanID(moduleCode, date, studentNumber string) string {
	return fmt.Sprintf("%s#%s#%s", moduleCode, date, studentNumber)
}

// SessionKey builds the composite module#date value stored in ModuleDate.
func SessionKey(moduleCode, date string) string {
	return moduleCode + "#" + date
}

// ParseScanID splits a composite scan ID back into its parts.
func ParseScanID(id string) (moduleCode, date, studentNumber string, ok bool) {
	parts := strings.SplitN(id, "#", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// LedgerEntry is the per-module read view over the scan documents: a map from
// calendar date to the scans recorded on that date. This is the shape callers
// and reporting views consume.
type LedgerEntry struct {
	ModuleCode string                  `json:"moduleCode"`
	Dates      map[string][]ScanRecord `json:"dates"`
}

// ScansFor returns the records for one date, in store order.
func (l *LedgerEntry) ScansFor(date string) []ScanRecord {
	if l == nil || l.Dates == nil {
		return nil
	}
	return l.Dates[date]
}

// CountForStudent counts the student's scans across all dates.
func (l *LedgerEntry) CountForStudent(studentNumber string) int {
	if l == nil {
		return 0
	}
	count := 0
	for _, records := range l.Dates {
		for _, rec := range records {
			if rec.StudentNumber == studentNumber {
				count++
			}
		}
	}
	return count
}
