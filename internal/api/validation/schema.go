package validation

import (
	"gamestore/internal/common"
)

// Rule is a cross-field check. It returns nil when v passes.
type Rule[T any] func(v *T) *common.FieldError

// Schema validates a T with its struct tags and then its rules. Schemas are
// built once at startup and are safe for concurrent use.
type Schema[T any] struct {
	rules []Rule[T]
}

func NewSchema[T any](rules ...Rule[T]) *Schema[T] {
	return &Schema[T]{rules: rules}
}

// Validate reports every failing field of v. Rules run in declaration order
// once the field rules pass.
func (s *Schema[T]) Validate(v *T) error {
	return s.validate(v, nil)
}

// validate merges earlier failures, such as parameter coercion errors, with
// the tag failures. A field that already failed is not reported twice.
func (s *Schema[T]) validate(v *T, prior []common.FieldError) error {
	fields := append([]common.FieldError(nil), prior...)
	seen := make(map[string]bool, len(prior))
	for _, f := range prior {
		seen[f.Field] = true
	}

	if err := validate.Struct(v); err != nil {
		for _, f := range fieldErrors(err) {
			if !seen[f.Field] {
				fields = append(fields, f)
			}
		}
	}

	if len(fields) == 0 && s != nil {
		for _, rule := range s.rules {
			if f := rule(v); f != nil {
				fields = append(fields, *f)
			}
		}
	}

	if len(fields) > 0 {
		return &common.ValidationError{Fields: fields}
	}
	return nil
}

// FieldsMatch builds a rule requiring two string fields to be equal. The
// failure is reported on field.
func FieldsMatch[T any](field, msg string, pick func(v *T) (string, string)) Rule[T] {
	return func(v *T) *common.FieldError {
		if a, b := pick(v); a != b {
			return &common.FieldError{Field: field, Message: msg}
		}
		return nil
	}
}
