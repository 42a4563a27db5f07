package validator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a business validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

var (
	studentNumberRe = regexp.MustCompile(`^[0-9]{8}$`)
	moduleCodeRe    = regexp.MustCompile(`^[A-Z]{2,8}[0-9]{2,4}$`)
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (bv *BusinessValidator) registerBusinessRules() {
	// student_number: eight digits, no checksum (legacy numbers predate it)
	_ = bv.validate.RegisterValidation("student_number", func(fl validator.FieldLevel) bool {
		return studentNumberRe.MatchString(fl.Field().String())
	})

	// module_code: subject letters followed by level digits, e.g. CS100
	_ = bv.validate.RegisterValidation("module_code", func(fl validator.FieldLevel) bool {
		return moduleCodeRe.MatchString(fl.Field().String())
	})

	// scan_date: calendar date in the ledger's YYYY-MM-DD key format
	_ = bv.validate.RegisterValidation("scan_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
}

// ToValidationErrors converts validator.ValidationErrors into the service's
// field-level representation.
func ToValidationErrors(err error) ValidationErrors {
	var out ValidationErrors
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "student_number":
		return "must be an eight-digit student number"
	case "module_code":
		return "must be a module code like CS100"
	case "scan_date":
		return "must be a date in YYYY-MM-DD format"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
