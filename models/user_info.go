package models

import (
	"strings"
)

// UserInfo holds the identifying fields an intern enters once per device.
// It is copied into every time and absence record.
type UserInfo struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	EmployeeID string `json:"employeeId" validate:"required,max=64"`
	DeviceName string `json:"deviceName" validate:"max=100"`
}

// Normalized returns a copy with surrounding whitespace removed
func (u UserInfo) Normalized() UserInfo {
	return UserInfo{
		FirstName:  strings.TrimSpace(u.FirstName),
		LastName:   strings.TrimSpace(u.LastName),
		EmployeeID: strings.TrimSpace(u.EmployeeID),
		DeviceName: strings.TrimSpace(u.DeviceName),
	}
}

// Validate validates the identity fields
func (u UserInfo) Validate() []string {
	return validateStruct(u)
}

// Check returns a *ValidationError titled Missing Information when a required
// field is empty, or Invalid Information when a field is too long
func (u UserInfo) Check() error {
	missing, invalid := validateRequired(u)
	if len(missing) > 0 {
		return NewValidationError(TitleMissingInformation, missing)
	}
	return NewValidationError(TitleInvalidInformation, invalid)
}

// IsEmpty reports whether nothing has been entered yet
func (u UserInfo) IsEmpty() bool {
	return u.FirstName == "" && u.LastName == "" && u.EmployeeID == "" && u.DeviceName == ""
}

// FullName returns "First Last"
func (u UserInfo) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
