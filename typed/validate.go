/*
Copyright 2018 The Fieldkit Authors.

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

package typed

import (
	"fmt"

	"github.com/fieldkit/structfield/fieldpath"
	"github.com/fieldkit/structfield/schema"
	"github.com/fieldkit/structfield/value"
)

// validatingWalker walks a value against a schema, checking that every
// scalar has the kind the schema says it should and that every map key
// is either declared or permitted. As it reaches leaves (scalars and
// untyped nodes) it invokes leafFieldCallback, when set, with the full
// path to that leaf -- this is how ToFieldSet is built on top of
// validation.
type validatingWalker struct {
	value             value.Value
	path              fieldpath.Path
	schema            *schema.Schema
	typeRef           schema.TypeRef
	leafFieldCallback func(fieldpath.Path)
	allocator         value.Allocator
}

func (tv *TypedValue) walker() *validatingWalker {
	return &validatingWalker{
		value:     tv.value,
		schema:    tv.schema,
		typeRef:   tv.typeRef,
		allocator: value.NewFreelistAllocator(),
	}
}

func (v *validatingWalker) validate() ValidationErrors {
	return resolveSchema(v.schema, v.typeRef, v.value, v)
}

func (v *validatingWalker) prepareDescent(pe fieldpath.PathElement, tr schema.TypeRef) *validatingWalker {
	return &validatingWalker{
		schema:            v.schema,
		typeRef:           tr,
		allocator:         v.allocator,
		leafFieldCallback: v.leafFieldCallback,
		path:              append(append(fieldpath.Path{}, v.path...), pe),
	}
}

func (v *validatingWalker) errorf(format string, args ...interface{}) ValidationErrors {
	return ValidationErrors{{
		Path:         append(fieldpath.Path{}, v.path...),
		ErrorMessage: fmt.Sprintf(format, args...),
	}}
}

func (v *validatingWalker) doScalar(t *schema.Scalar) ValidationErrors {
	if errs := validateScalar(t, v.value, v.path.String()); len(errs) != 0 {
		return errs
	}
	if v.leafFieldCallback != nil {
		v.leafFieldCallback(v.path)
	}
	return nil
}

func (v *validatingWalker) doUntyped(t *schema.Untyped) ValidationErrors {
	if v.leafFieldCallback != nil {
		v.leafFieldCallback(v.path)
	}
	return nil
}

func (v *validatingWalker) doList(t *schema.List) (errs ValidationErrors) {
	list, err := listValue(v.allocator, v.value)
	if err != nil {
		return ValidationErrors{{Path: append(fieldpath.Path{}, v.path...), ErrorMessage: err.Error()}}
	}
	if list == nil {
		return nil
	}
	defer v.allocator.Free(list)

	observed := map[string]struct{}{}
	iter := list.RangeUsing(v.allocator)
	defer v.allocator.Free(iter)
	for iter.Next() {
		i, child := iter.Item()
		pe, pathErr := listItemToPathElement(v.allocator, t, i, child)
		if pathErr != nil {
			errs = append(errs, ValidationError{
				Path:         append(fieldpath.Path{}, v.path...),
				ErrorMessage: pathErr.Error(),
			})
			continue
		}
		key := pe.String()
		if _, found := observed[key]; found {
			errs = append(errs, ValidationError{
				Path:         append(fieldpath.Path{}, v.path...),
				ErrorMessage: fmt.Sprintf("duplicate entries for key %v", key),
			})
		}
		observed[key] = struct{}{}

		v2 := v.prepareDescent(pe, t.ElementType)
		v2.value = child
		errs = append(errs, v2.validate()...)
	}
	return errs
}

func (v *validatingWalker) doMap(t *schema.Map) (errs ValidationErrors) {
	m, err := mapValue(v.allocator, v.value)
	if err != nil {
		return ValidationErrors{{Path: append(fieldpath.Path{}, v.path...), ErrorMessage: err.Error()}}
	}
	if m == nil {
		return nil
	}
	defer v.allocator.Free(m)

	fieldTypes := map[string]schema.TypeRef{}
	for _, sf := range t.Fields {
		fieldTypes[sf.Name] = sf.Type
	}
	hasElementType := !isEmptyTypeRef(t.ElementType)

	m.Iterate(func(k string, val value.Value) bool {
		pe := fieldpath.PathElement{FieldName: &k}

		tr, known := fieldTypes[k]
		if !known {
			switch {
			case hasElementType:
				tr = t.ElementType
			case t.PreserveUnknownFields:
				return true
			default:
				errs = append(errs, ValidationError{
					Path:         append(append(fieldpath.Path{}, v.path...), pe),
					ErrorMessage: fmt.Sprintf("field %q is not mentioned in the schema", k),
				})
				return true
			}
		}

		v2 := v.prepareDescent(pe, tr)
		v2.value = val
		errs = append(errs, v2.validate()...)
		return true
	})
	return errs
}

// isEmptyTypeRef reports whether tr refers to nothing at all: neither a
// named type nor an inlined atom.
func isEmptyTypeRef(tr schema.TypeRef) bool {
	return tr.NamedType == nil &&
		tr.Inlined.Scalar == nil &&
		tr.Inlined.List == nil &&
		tr.Inlined.Map == nil &&
		tr.Inlined.Untyped == nil
}

func validateScalar(t *schema.Scalar, val value.Value, path string) ValidationErrors {
	if val.IsNull() {
		return nil
	}
	switch *t {
	case schema.Numeric:
		if !val.IsFloat() && !val.IsInt() {
			return ValidationErrors{{ErrorMessage: fmt.Sprintf("%v: expected numeric, got %v", path, value.ToString(val))}}
		}
	case schema.String:
		if !val.IsString() {
			return ValidationErrors{{ErrorMessage: fmt.Sprintf("%v: expected string, got %v", path, value.ToString(val))}}
		}
	case schema.Boolean:
		if !val.IsBool() {
			return ValidationErrors{{ErrorMessage: fmt.Sprintf("%v: expected boolean, got %v", path, value.ToString(val))}}
		}
	}
	return nil
}
