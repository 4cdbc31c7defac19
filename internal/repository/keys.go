package repository

// Persisted key layout. The credential map and session slot are global by
// necessity (they resolve identity); everything else is namespaced per user.
const (
	sessionKey     = "currentUser"
	credentialsKey = "users"

	studentsKeyPrefix   = "students_"
	attendanceKeyPrefix = "attendance_"
	marksKeyPrefix      = "marks_"
)

// StudentsKey returns the per-user students collection key.
func StudentsKey(username string) string { return studentsKeyPrefix + username }

// AttendanceKey returns the per-user attendance collection key.
func AttendanceKey(username string) string { return attendanceKeyPrefix + username }

// MarksKey returns the per-user marks collection key.
func MarksKey(username string) string { return marksKeyPrefix + username }
