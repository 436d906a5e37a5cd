package validation

import (
	"fmt"
	"reflect"
	"strconv"

	"gamestore/internal/common"
)

// coerce fills the `param`-tagged fields of dst from lookup. Integers must
// be positive; empty values leave the field at its zero value for the tag
// rules to judge.
func coerce(dst any, lookup func(name string) string) []common.FieldError {
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()

	var fields []common.FieldError
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := sf.Tag.Get("param")
		if name == "" || !sf.IsExported() {
			continue
		}
		raw := lookup(name)
		if raw == "" {
			continue
		}
		if msg := setField(rv.Field(i), raw); msg != "" {
			fields = append(fields, common.FieldError{Field: name, Message: msg})
		}
	}
	return fields
}

func setField(v reflect.Value, raw string) string {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil || n <= 0 {
			return "must be a positive integer"
		}
		v.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return "must be true or false"
		}
		v.SetBool(b)
	default:
		panic(fmt.Sprintf("validation: unsupported param field kind %s", v.Kind()))
	}
	return ""
}
