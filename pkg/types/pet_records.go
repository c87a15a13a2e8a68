package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// VaccinationRecord is one entry in a pet's vaccination log.
type VaccinationRecord struct {
	VaccineName  string     `json:"vaccine_name"`
	Date         time.Time  `json:"date"`
	NextDueDate  *time.Time `json:"next_due_date,omitempty"`
	Veterinarian string     `json:"veterinarian,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// VaccinationRecords persists the vaccination log as a JSONB array.
type VaccinationRecords []VaccinationRecord

// Value marshals the records into JSON for Postgres.
func (v VaccinationRecords) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the slice.
func (v *VaccinationRecords) Scan(value interface{}) error {
	return scanJSONSlice(value, v, "vaccination records")
}

// EmergencyContact is an alternate person to reach when a pet is found.
type EmergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation,omitempty"`
}

// EmergencyContacts persists the contact list as a JSONB array.
type EmergencyContacts []EmergencyContact

// Value marshals the contacts into JSON for Postgres.
func (e EmergencyContacts) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the slice.
func (e *EmergencyContacts) Scan(value interface{}) error {
	return scanJSONSlice(value, e, "emergency contacts")
}

func scanJSONSlice(value interface{}, dest any, label string) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("%s: unsupported scan type %T", label, value)
	}
	return json.Unmarshal(raw, dest)
}
