package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required": "{field} is required",
		"gte":      "{field} must be greater than or equal to {param}",
		"lte":      "{field} must be less than or equal to {param}",
		"oneof":    "{field} must be one of {param}",
		"max":      "{field} must be less than or equal to {param}",
		"min":      "{field} must be greater than or equal to {param}",
		"email":    "{field} must be a valid email address",
		"datetime": "{field} must match the {param} format",
	}
)

// message renders the first validation error as the response message and
// returns the complete per-field breakdown alongside it.
func message(err error) (string, map[string]string) {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return err.Error(), nil
	}

	fields := map[string]string{}
	first := ""

	for _, valErr := range valErrors {
		field := valErr.Field()

		errStr := messages[valErr.Tag()]
		if errStr == "" {
			errStr = valErr.Error()
		} else {
			errStr = strings.ReplaceAll(errStr, "{field}", field)
			errStr = strings.ReplaceAll(errStr, "{param}", valErr.Param())
		}

		fields[field] = errStr

		if first == "" {
			first = errStr
		}
	}

	if first == "" {
		return valErrors.Error(), fields
	}

	return first, fields
}
