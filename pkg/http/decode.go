package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

var ErrMalformedBody = errors.New("request body must be a single JSON object")

// DecodeStringObject decodes a JSON object into dst, a pointer to a struct
// whose string fields carry json tags. Unknown keys are ignored and null
// counts as absent. A known key holding a non-string value is not fatal:
// it is reported as "<key> must be a string" in the returned list, in field
// order, and the field is left empty. A body that is not one JSON object
// yields ErrMalformedBody.
func DecodeStringObject(body io.Reader, dst any) ([]string, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("decode target must be a non-nil struct pointer, got %T", dst)
	}

	dec := json.NewDecoder(body)
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if raw == nil {
		return nil, ErrMalformedBody
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedBody)
	}

	elem := rv.Elem()
	typ := elem.Type()

	var typeErrors []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() || field.Type.Kind() != reflect.String {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		value, ok := raw[name]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}

		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			typeErrors = append(typeErrors, name+" must be a string")
			continue
		}
		elem.Field(i).SetString(s)
	}

	return typeErrors, nil
}
