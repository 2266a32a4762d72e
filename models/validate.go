package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldLabels maps struct field names to the labels shown to users
var fieldLabels = map[string]string{
	"FirstName":  "First name",
	"LastName":   "Last name",
	"EmployeeID": "Employee ID",
	"DeviceName": "Device name",
	"Date":       "Date",
	"Reason":     "Reason",
	"DayOfWeek":  "Day of week",
}

// validateStruct runs the struct tags and returns one message per failed field
func validateStruct(s interface{}) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return messages
}

// validateRequired splits the problems into missing required fields and everything else
func validateRequired(s interface{}) (missing, invalid []string) {
	err := validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, []string{err.Error()}
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, describeFieldError(fe))
		} else {
			invalid = append(invalid, describeFieldError(fe))
		}
	}
	return missing, invalid
}

func describeFieldError(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "datetime":
		return label + " must be in YYYY-MM-DD format"
	default:
		return label + " is invalid"
	}
}
