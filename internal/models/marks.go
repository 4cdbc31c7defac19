package models

// Known terms. The mapping is extensible; these are the two the UI offers.
const (
	Term1 = "term1"
	Term2 = "term2"
)

// TermMarks maps subject name to the marks cell for one term.
type TermMarks map[string]Cell

// StudentMarks maps term to that term's subject marks.
type StudentMarks map[string]TermMarks

// MarksBook is the full nested mapping studentId -> term -> subject -> marks.
type MarksBook map[string]StudentMarks
