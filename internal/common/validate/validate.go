// Package validate wraps go-playground/validator so configuration and game
// settings report every failing field in one error.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var std = validator.New(validator.WithRequiredStructEnabled())

// Struct validates i using its validate tags
func Struct(i any) error {
	if err := std.Struct(i); err != nil {
		return format(err)
	}
	return nil
}

func format(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			e.Namespace(),
			e.Tag(),
			e.Value(),
		))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}
