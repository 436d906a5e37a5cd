package validation

import (
	"encoding/json"
	"io"
	"reflect"
	"strings"

	"gamestore/internal/common"
)

// decodeBody reads a JSON object from r into dst one field at a time, so a
// value of the wrong type fails its own field and the rest still decode.
// Syntax errors and non-object bodies are returned as err.
func decodeBody(dst any, r io.Reader) ([]common.FieldError, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	var fields []common.FieldError
	decodeObject(reflect.ValueOf(dst).Elem(), raw, &fields)
	return fields, nil
}

func decodeObject(rv reflect.Value, raw map[string]json.RawMessage, fields *[]common.FieldError) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if sf.Anonymous && tag == "" && sf.Type.Kind() == reflect.Struct {
			decodeObject(rv.Field(i), raw, fields)
			continue
		}
		if !sf.IsExported() || tag == "-" {
			continue
		}
		name := tag
		if name == "" {
			name = sf.Name
		}
		value, ok := lookupKey(raw, name)
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, rv.Field(i).Addr().Interface()); err != nil {
			*fields = append(*fields, common.FieldError{Field: name, Message: "must be " + jsonType(sf.Type)})
		}
	}
}

// lookupKey matches keys the way encoding/json does: exact first, then
// case-insensitive.
func lookupKey(raw map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if v, ok := raw[name]; ok {
		return v, true
	}
	for k, v := range raw {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}
