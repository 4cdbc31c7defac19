package models

import (
	"fmt"
	"strings"
)

// Attendance status tokens embedded in composite keys.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// AcademicMonths lists lowercase month tokens in academic-year order.
var AcademicMonths = []string{
	"june", "july", "august", "september", "october", "november",
	"december", "january", "february", "march", "april", "may",
}

// AttendanceSheet is a flat mapping from composite keys
// "{month}-{year}-{present|absent}-{studentId}" to day counts. The key is
// the relation; there is no entity object.
type AttendanceSheet map[string]Cell

// AttendanceKey builds the composite key for one cell.
func AttendanceKey(month, year, status, studentID string) string {
	return fmt.Sprintf("%s-%s-%s-%s", month, year, status, studentID)
}

// ParseAttendanceKey splits a composite key into its four positions. The
// student id must not itself contain "-"; an id that does would make the
// format ambiguous, so it surfaces as an error rather than a silent
// mis-association.
func ParseAttendanceKey(key string) (month, year, status, studentID string, err error) {
	parts := strings.SplitN(key, "-", 4)
	if len(parts) != 4 {
		return "", "", "", "", fmt.Errorf("attendance key %q: want 4 dash-separated parts", key)
	}
	month, year, status, studentID = parts[0], parts[1], parts[2], parts[3]

	if !validMonth(month) {
		return "", "", "", "", fmt.Errorf("attendance key %q: unknown month %q", key, month)
	}
	if len(year) != 4 {
		return "", "", "", "", fmt.Errorf("attendance key %q: year must be 4 digits", key)
	}
	if status != AttendancePresent && status != AttendanceAbsent {
		return "", "", "", "", fmt.Errorf("attendance key %q: status must be present or absent", key)
	}
	if strings.Contains(studentID, "-") {
		return "", "", "", "", fmt.Errorf("attendance key %q: composite student id", key)
	}
	return month, year, status, studentID, nil
}

func validMonth(month string) bool {
	for _, m := range AcademicMonths {
		if m == month {
			return true
		}
	}
	return false
}
