package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"go-stockdesk/internal/model"
)

var validate = validator.New()

// ValidateStruct checks the struct's validate tags and reports the first
// violation wrapped in model.ErrValidation so the boundary can surface it
// verbatim to the caller.
func ValidateStruct(data interface{}) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", model.ErrValidation, first.StructNamespace(), first.Tag())
	}
	return fmt.Errorf("%w: %v", model.ErrValidation, err)
}
