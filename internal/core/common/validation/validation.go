package validation

import (
	"fmt"
	"strings"

	errors "github.com/frahmantamala/checkout-service/internal"
)

type ValidatorFunc func(interface{}) *errors.ValidationError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
	base   *errors.AppError
}

// NewValidator collects field failures into base. Field-level details are
// attached to a copy, base itself is never modified.
func NewValidator(base *errors.AppError) *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
		base:   base,
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		missing := false
		switch v := value.(type) {
		case nil:
			missing = true
		case string:
			missing = strings.TrimSpace(v) == ""
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		}
		if missing {
			return &errors.ValidationError{
				Field:   fv.FieldName,
				Message: fmt.Sprintf("%s is required", fv.FieldName),
				Code:    string(errors.ErrCodeMissingParameters),
			}
		}
		return nil
	})
	return fv
}

// Validate runs validators in field order and stops at the first failure per field.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if err := validator(field.Value); err != nil {
				validationErrors = append(validationErrors, *err)
				break
			}
		}
	}

	if len(validationErrors) > 0 {
		return v.base.WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}
