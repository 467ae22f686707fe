package validator

// Validator bundles struct validation with business rules. Handlers and
// services share one instance.
type Validator struct {
	business *BusinessValidator
}

func New() *Validator {
	return &Validator{
		business: NewBusinessValidator(),
	}
}

// GetBusinessValidator returns the business rule validator.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// Struct validates any tagged struct.
func (v *Validator) Struct(s interface{}) ValidationErrors {
	return v.business.Validate(s)
}
