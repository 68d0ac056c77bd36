package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)

	// DeviceCodeMap maps biometric device codes to employee ids for
	// attendance batch processing.
	DeviceCodeMap(ctx context.Context) (map[string]string, error)
}
