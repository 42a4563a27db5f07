package validator

import "github.com/go-playground/validator/v10"

// Validator bundles struct validation and the business rules the request
// DTOs depend on.
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

// New creates a validator with all business rules registered.
func New() *Validator {
	v := &Validator{
		validate: validator.New(),
		business: NewBusinessValidator(),
	}
	return v
}

// ValidateStruct validates a request DTO and returns field-level errors.
func (v *Validator) ValidateStruct(s interface{}) ValidationErrors {
	return v.business.Validate(s)
}

// GetBusinessValidator returns the underlying business validator.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}
