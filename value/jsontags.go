/*
Copyright 2019 The Fieldkit Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package value

import (
	"reflect"
	"strings"
)

// lookupJsonTags parses the `json` struct tag the way encoding/json does,
// plus a non-standard `inline` option used by struct-reflected values to
// flatten an embedded struct's fields into its parent.
func lookupJsonTags(field reflect.StructField) (name string, omit bool, isInline bool, isOmitempty bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true, false, false
	}
	if field.PkgPath != "" && !field.Anonymous {
		// unexported field
		return "", true, false, false
	}

	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty":
			isOmitempty = true
		case "inline":
			isInline = true
		}
	}
	if name == "" {
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			isInline = true
		}
		name = field.Name
	}
	return name, false, isInline, isOmitempty
}

// isZero returns true if v is the zero value for its type. It mirrors the
// subset of reflect.Value.IsZero needed to decide whether an 'omitempty'
// field should be skipped.
func isZero(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	default:
		return false
	}
}
