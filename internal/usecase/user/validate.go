package user

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "userapp/pkg/errors"
)

// Violation describes one failed field constraint.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// minLengthMessages holds the messages for min-length failures, keyed by struct field.
var minLengthMessages = map[string]string{
	"FirstName": "First Name should have at least 2 characters",
	"LastName":  "Last Name should have at least 2 characters",
}

var validate = NewValidator()

// NewValidator returns a validator that reports fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterJSONTagNames(v)
	return v
}

// RegisterJSONTagNames makes v report json field names instead of Go field names.
func RegisterJSONTagNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateUserDto checks presence, length and email syntax of dto.
// It returns nil when dto is valid.
func ValidateUserDto(dto UserDto) []Violation {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	if vs, ok := ViolationsFromError(err); ok {
		return vs
	}
	return []Violation{{Message: err.Error()}}
}

// ViolationsFromError converts validator.ValidationErrors into violations.
func ViolationsFromError(err error) ([]Violation, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}

	violations := make([]Violation, 0, len(validationErrors))
	for _, e := range validationErrors {
		violations = append(violations, Violation{
			Field:   e.Field(),
			Message: violationMessage(e),
		})
	}
	return violations, true
}

func violationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "must not be empty"
	case "email":
		return "must be a well-formed email address"
	case "min":
		if msg, ok := minLengthMessages[e.StructField()]; ok {
			return msg
		}
		return "size must be at least " + e.Param()
	default:
		return "is invalid"
	}
}

// ViolationError folds violations into a single invalid argument error.
func ViolationError(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}

	messages := make([]string, len(violations))
	for i, v := range violations {
		messages[i] = v.Field + ": " + v.Message
	}
	if len(violations) == 1 {
		return apperrors.NewValidationError(violations[0].Field, violations[0].Message)
	}
	return apperrors.NewValidationError("", strings.Join(messages, ", "))
}
