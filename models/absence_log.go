package models

import (
	"strconv"
	"strings"
)

// AbsenceReasonMaxLength bounds the free-text reason
const AbsenceReasonMaxLength = 100

// AbsenceLog records a day an intern will not attend
type AbsenceLog struct {
	ID string `json:"id"`
	UserInfo
	Date        string `json:"date"` // YYYY-MM-DD
	Reason      string `json:"reason"`
	Submitted   string `json:"submitted"`
	SubmittedAt int64  `json:"submittedAt"` // epoch milliseconds
}

// AbsenceForm represents form data for logging an absence
type AbsenceForm struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Reason string `json:"reason" validate:"required,max=100"`
}

// Normalized trims the free-text fields
func (f AbsenceForm) Normalized() AbsenceForm {
	return AbsenceForm{
		Date:   strings.TrimSpace(f.Date),
		Reason: strings.TrimSpace(f.Reason),
	}
}

// Validate validates the absence form data
func (f AbsenceForm) Validate() []string {
	return validateStruct(f)
}

// ValidateWithLimit applies a configured reason limit on top of the struct tags
func (f AbsenceForm) ValidateWithLimit(maxReason int) []string {
	errors := f.Validate()
	if maxReason > 0 && maxReason < AbsenceReasonMaxLength && len([]rune(f.Reason)) > maxReason {
		errors = append(errors, "Reason must be at most "+strconv.Itoa(maxReason)+" characters")
	}
	return errors
}
