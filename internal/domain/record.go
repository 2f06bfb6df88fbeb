package domain

import "fmt"

// recordStatuses are the accepted values of a daily submission's status field.
var recordStatuses = map[string]bool{
	"present": true,
	"absent":  true,
	"excused": true,
}

// ValidateRecordStatus checks the required status field of a submission.
func ValidateRecordStatus(status string) error {
	if status == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidInput)
	}
	if !recordStatuses[status] {
		return fmt.Errorf("%w: status must be one of present, absent, excused", ErrInvalidInput)
	}
	return nil
}
