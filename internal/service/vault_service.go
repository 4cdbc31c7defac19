package service

import (
	"go.uber.org/zap"
)

// VaultService bundles the per-user wipe: students, attendance and marks
// removed in one call. Credentials and the session survive so the user can
// keep working with an empty vault.
type VaultService struct {
	students   *StudentService
	attendance *AttendanceService
	marks      *MarksService
	logger     *zap.Logger
}

// NewVaultService constructs a VaultService instance.
func NewVaultService(students *StudentService, attendance *AttendanceService, marks *MarksService, logger *zap.Logger) *VaultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VaultService{students: students, attendance: attendance, marks: marks, logger: logger}
}

// ClearAll wipes every collection of the logged-in user. Each clear is
// attempted even if an earlier one fails; the first failure is returned.
func (s *VaultService) ClearAll() error {
	var firstErr error
	for _, clear := range []func() error{s.students.Clear, s.attendance.Clear, s.marks.Clear} {
		if err := clear(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			s.logger.Warn("vault clear step failed", zap.Error(err))
		}
	}
	return firstErr
}
