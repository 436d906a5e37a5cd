// Package validation checks request bodies, path parameters and query
// strings against declarative schemas before a handler runs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

const passwordSpecials = "@$!%*?&"

var (
	usernamePattern     = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	categoryNamePattern = regexp.MustCompile(`^[A-Za-z0-9 -]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)

	must(v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	}))
	must(v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		_, err := model.ParsePrice(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("categoryname", func(fl validator.FieldLevel) bool {
		return categoryNamePattern.MatchString(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// fieldName reports fields by their json name, falling back to the param
// tag used by path and query structs.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "param"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// strongPassword requires a lowercase letter, an uppercase letter, a digit
// and one of @$!%*?&, and allows nothing else.
func strongPassword(s string) bool {
	var lower, upper, digit, special bool
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, c):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// fieldErrors converts validator output into client-facing field errors.
func fieldErrors(err error) []common.FieldError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []common.FieldError{{Field: "body", Message: "is invalid"}}
	}
	out := make([]common.FieldError, 0, len(ves))
	for _, fe := range ves {
		out = append(out, common.FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// fieldPath drops the struct name from the namespace, so
// "BroadcastRequest.userIds[1]" becomes "userIds[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	kind := fe.Kind()
	isString := kind == reflect.String
	isList := kind == reflect.Slice || kind == reflect.Array || kind == reflect.Map

	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		switch {
		case isString:
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		case isList:
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		switch {
		case isString:
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		case isList:
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "username":
		return "can only contain letters, numbers and underscores"
	case "password":
		return "must contain at least one uppercase letter, one lowercase letter, one number and one special character (" + passwordSpecials + ")"
	case "price":
		return "must be a decimal with at most two fraction digits"
	case "categoryname":
		return "can only contain letters, numbers, spaces and hyphens"
	}
	return "is invalid"
}
