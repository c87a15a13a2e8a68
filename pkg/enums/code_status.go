package enums

import "fmt"

// CodeStatus tracks the lifecycle of an inventory QR code.
type CodeStatus string

const (
	CodeStatusAvailable CodeStatus = "available"
	CodeStatusAssigned  CodeStatus = "assigned"
	CodeStatusActive    CodeStatus = "active"
	CodeStatusInactive  CodeStatus = "inactive"
)

var validCodeStatuses = []CodeStatus{
	CodeStatusAvailable,
	CodeStatusAssigned,
	CodeStatusActive,
	CodeStatusInactive,
}

// String implements fmt.Stringer.
func (c CodeStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CodeStatus.
func (c CodeStatus) IsValid() bool {
	for _, candidate := range validCodeStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// Bound reports whether a code in this status carries a pet binding.
func (c CodeStatus) Bound() bool {
	return c == CodeStatusAssigned || c == CodeStatusActive
}

// ParseCodeStatus converts raw input into a CodeStatus.
func ParseCodeStatus(value string) (CodeStatus, error) {
	for _, candidate := range validCodeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid code status %q", value)
}
