package models

import "time"

// Allowed enumerations for student profile fields.
var (
	ValidGenders = []string{"male", "female"}
	ValidMediums = []string{"marathi", "english"}
)

// Subject is one entry of a student's ordered subject list.
type Subject struct {
	Name  string `json:"name"`
	Marks string `json:"marks"`
}

// Student is the central profile record. Numeric fields are stored as
// strings, matching the persisted layout. The fields listed in
// SensitiveFieldNames are obfuscated at rest.
type Student struct {
	ID                 string    `json:"id"`
	RegistrationNumber string    `json:"registrationNumber"`
	StudentName        string    `json:"studentName"`
	Class              string    `json:"class"`
	Gender             string    `json:"gender"`
	Caste              string    `json:"caste"`
	DOB                string    `json:"dob"`
	FatherName         string    `json:"fatherName"`
	MotherName         string    `json:"motherName"`
	MotherTongue       string    `json:"motherTongue"`
	Medium             string    `json:"medium"`
	Address            string    `json:"address"`
	PhoneNumber        string    `json:"phoneNumber"`
	Height             string    `json:"height"`
	Weight             string    `json:"weight"`
	SchoolName         string    `json:"schoolName"`
	HealthNotes        string    `json:"healthNotes"`
	Subjects           []Subject `json:"subjects"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// SensitiveFieldNames documents which profile fields are stored obfuscated.
var SensitiveFieldNames = []string{"studentName", "fatherName", "motherName", "address", "phoneNumber"}

// TransformSensitive returns a copy with fn applied to every sensitive
// field. The same method serves both the obfuscate and deobfuscate paths.
func (s Student) TransformSensitive(fn func(string) string) Student {
	out := s
	out.StudentName = fn(s.StudentName)
	out.FatherName = fn(s.FatherName)
	out.MotherName = fn(s.MotherName)
	out.Address = fn(s.Address)
	out.PhoneNumber = fn(s.PhoneNumber)
	return out
}
