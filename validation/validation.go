// Package validation wraps go-playground/validator and translates tag
// failures into apperror field errors, keeping the express-validator style
// message array the API clients expect.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/user/devconnector-go/apperror"
)

// validate is the shared validator instance. validator.Validate caches struct
// metadata internally and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field names by their json tag so the "param" entries in error
	// responses match the request payload keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates v against its `validate` tags. messages maps json field
// names to the client-facing message for that field; fields without an entry
// get a generic message. Returns nil when v is valid, otherwise an
// apperror.ValidationError carrying one FieldError per failed field.
func Struct(v interface{}, messages map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// validator.InvalidValidationError means v was not a struct, which is
		// a programming error, not client input.
		return apperror.NewInternalError("validation failed", err)
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, found := messages[fe.Field()]
		if !found {
			msg = fe.Field() + " is invalid"
		}
		fields = append(fields, apperror.FieldError{Msg: msg, Param: fe.Field()})
	}
	return apperror.NewValidationError(fields...)
}
