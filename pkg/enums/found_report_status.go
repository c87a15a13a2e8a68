package enums

import "fmt"

// FoundReportStatus tracks how far an owner has taken a finder report.
type FoundReportStatus string

const (
	FoundReportStatusPending   FoundReportStatus = "pending"
	FoundReportStatusContacted FoundReportStatus = "contacted"
	FoundReportStatusResolved  FoundReportStatus = "resolved"
)

var validFoundReportStatuses = []FoundReportStatus{
	FoundReportStatusPending,
	FoundReportStatusContacted,
	FoundReportStatusResolved,
}

// String implements fmt.Stringer.
func (f FoundReportStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FoundReportStatus.
func (f FoundReportStatus) IsValid() bool {
	for _, candidate := range validFoundReportStatuses {
		if candidate == f {
			return true
		}
	}
	return false
}

// CanAdvanceTo reports whether the status may move to next. Transitions are
// strictly forward: pending -> contacted -> resolved. Resolved is terminal.
func (f FoundReportStatus) CanAdvanceTo(next FoundReportStatus) bool {
	switch f {
	case FoundReportStatusPending:
		return next == FoundReportStatusContacted || next == FoundReportStatusResolved
	case FoundReportStatusContacted:
		return next == FoundReportStatusResolved
	default:
		return false
	}
}

// ParseFoundReportStatus converts raw input into a FoundReportStatus.
func ParseFoundReportStatus(value string) (FoundReportStatus, error) {
	for _, candidate := range validFoundReportStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid found report status %q", value)
}
