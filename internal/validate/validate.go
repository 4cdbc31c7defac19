// Package validate bound-checks and sanitizes every payload before it is
// allowed into the vault. Student profiles are validated all-or-nothing;
// attendance and marks validation is corrective: out-of-range values are
// clamped to a safe default and the caller is told, but the save proceeds.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/school-vault-api/internal/models"
	"github.com/noah-isme/school-vault-api/pkg/sanitize"
)

const (
	maxAttendanceDays = 31
	maxMarks          = 1000
)

// Result accumulates every violation found, not just the first.
type Result struct {
	IsValid bool
	Errors  []string
}

func newResult(errs []string) Result {
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// StudentProfile checks required fields, length bounds, enumerations and
// numeric ranges, returning the accumulated errors and a sanitized copy.
func StudentProfile(in models.Student) (Result, models.Student) {
	var errs []string
	out := models.Student{
		ID:        in.ID,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}

	if strings.TrimSpace(in.StudentName) == "" {
		errs = append(errs, "Student name is required")
	} else if len(in.StudentName) > 50 {
		errs = append(errs, "Student name must be less than 50 characters")
	} else {
		out.StudentName = sanitize.TrimmedText(in.StudentName)
	}

	if strings.TrimSpace(in.Class) == "" {
		errs = append(errs, "Class is required")
	} else if classNum, err := strconv.Atoi(strings.TrimSpace(in.Class)); err != nil || classNum < 1 || classNum > 12 {
		errs = append(errs, "Class must be a number between 1 and 12")
	} else {
		out.Class = strconv.Itoa(classNum)
	}

	if strings.TrimSpace(in.RegistrationNumber) == "" {
		errs = append(errs, "Registration number is required")
	} else if len(in.RegistrationNumber) > 20 {
		errs = append(errs, "Registration number must be less than 20 characters")
	} else {
		out.RegistrationNumber = sanitize.TrimmedText(in.RegistrationNumber)
	}

	out.FatherName = boundedText(in.FatherName, 50, "Father name", &errs)
	out.MotherName = boundedText(in.MotherName, 50, "Mother name", &errs)
	out.Caste = boundedText(in.Caste, 30, "Caste", &errs)
	out.MotherTongue = boundedText(in.MotherTongue, 30, "Mother tongue", &errs)
	out.Address = boundedText(in.Address, 200, "Address", &errs)
	out.SchoolName = boundedText(in.SchoolName, 100, "School name", &errs)
	out.HealthNotes = boundedText(in.HealthNotes, 500, "Health notes", &errs)

	out.Gender = enumText(in.Gender, models.ValidGenders, "Invalid gender value", &errs)
	out.Medium = enumText(in.Medium, models.ValidMediums, "Invalid medium value", &errs)

	if in.DOB != "" {
		out.DOB = sanitize.TrimmedText(in.DOB)
	}

	if in.PhoneNumber != "" {
		if !isDigits(in.PhoneNumber) || len(in.PhoneNumber) != 10 {
			errs = append(errs, "Phone number must be 10 digits")
		} else {
			out.PhoneNumber = sanitize.TrimmedText(in.PhoneNumber)
		}
	}

	out.Height = boundedNumber(in.Height, 50, 250, "Height must be between 50 and 250 cm", &errs)
	out.Weight = boundedNumber(in.Weight, 10, 200, "Weight must be between 10 and 200 kg", &errs)

	out.Subjects = sanitizeSubjects(in.Subjects, &errs)

	return newResult(errs), out
}

// Attendance walks every key/value pair, sanitizes keys, and clamps
// out-of-range or non-numeric day counts to zero while recording an error.
func Attendance(in models.AttendanceSheet) (Result, models.AttendanceSheet) {
	var errs []string
	out := make(models.AttendanceSheet, len(in))

	for key, value := range in {
		if len(key) > 100 {
			errs = append(errs, "Data key too long")
			continue
		}
		sanitizedKey := sanitize.Text(key)

		cell := value
		switch {
		case cell.Raw != "":
			errs = append(errs, fmt.Sprintf("Invalid numeric value for %s", sanitizedKey))
			cell = models.NewCell(0)
		case cell.Valid && (cell.Value < 0 || cell.Value > maxAttendanceDays):
			errs = append(errs, fmt.Sprintf("Invalid numeric value for %s", sanitizedKey))
			cell = models.NewCell(0)
		}

		out[sanitizedKey] = cell
	}

	return newResult(errs), out
}

// Marks walks the nested studentId -> term -> subject structure, sanitizing
// names and clamping out-of-range marks to empty.
func Marks(in models.MarksBook) (Result, models.MarksBook) {
	var errs []string
	out := make(models.MarksBook, len(in))

	for studentID, terms := range in {
		if len(studentID) > 50 {
			errs = append(errs, "Student ID too long")
			continue
		}
		sanitizedID := sanitize.Text(studentID)
		out[sanitizedID] = make(models.StudentMarks, len(terms))

		for term, subjects := range terms {
			if len(term) > 20 {
				errs = append(errs, "Term name too long")
				continue
			}
			sanitizedTerm := sanitize.Text(term)
			out[sanitizedID][sanitizedTerm] = make(models.TermMarks, len(subjects))

			for subject, marks := range subjects {
				if len(subject) > 50 {
					errs = append(errs, "Subject name too long")
					continue
				}
				sanitizedSubject := sanitize.Text(subject)

				cell := marks
				switch {
				case cell.Raw != "":
					errs = append(errs, fmt.Sprintf("Invalid marks value for %s", sanitizedSubject))
					cell = models.EmptyCell
				case cell.Valid && (cell.Value < 0 || cell.Value > maxMarks):
					errs = append(errs, fmt.Sprintf("Invalid marks value for %s", sanitizedSubject))
					cell = models.EmptyCell
				}

				out[sanitizedID][sanitizedTerm][sanitizedSubject] = cell
			}
		}
	}

	return newResult(errs), out
}

func boundedText(value string, maxLen int, label string, errs *[]string) string {
	if value == "" {
		return ""
	}
	if len(value) > maxLen {
		*errs = append(*errs, fmt.Sprintf("%s must be less than %d characters", label, maxLen))
		return ""
	}
	return sanitize.TrimmedText(value)
}

func enumText(value string, allowed []string, message string, errs *[]string) string {
	if value == "" {
		return ""
	}
	lowered := strings.ToLower(value)
	for _, a := range allowed {
		if a == lowered {
			return sanitize.TrimmedText(value)
		}
	}
	*errs = append(*errs, message)
	return ""
}

func boundedNumber(value string, min, max int, message string, errs *[]string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < min || n > max {
		*errs = append(*errs, message)
		return ""
	}
	return strconv.Itoa(n)
}

func sanitizeSubjects(subjects []models.Subject, errs *[]string) []models.Subject {
	out := make([]models.Subject, 0, len(subjects))
	for _, subject := range subjects {
		if len(subject.Name) > 50 {
			*errs = append(*errs, "Subject name must be less than 50 characters")
			continue
		}
		name := sanitize.TrimmedText(subject.Name)
		if name == "" {
			continue
		}
		out = append(out, models.Subject{Name: name, Marks: subject.Marks})
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
