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
	"errors"
	"fmt"
	"strings"

	"github.com/fieldkit/structfield/fieldpath"
	"github.com/fieldkit/structfield/schema"
	"github.com/fieldkit/structfield/value"
)

// ValidationError reports an error about a particular field.
type ValidationError struct {
	Path         fieldpath.Path
	ErrorMessage string
}

// Error returns a human readable error message.
func (ve ValidationError) Error() string {
	if len(ve.Path) == 0 {
		return ve.ErrorMessage
	}
	return fmt.Sprintf("%v: %v", ve.Path, ve.ErrorMessage)
}

// ValidationErrors accumulates multiple validation error messages.
type ValidationErrors []ValidationError

// Error returns a human readable error message reporting each error in
// the list.
func (errs ValidationErrors) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	messages := []string{"errors:"}
	for _, e := range errs {
		messages = append(messages, "  "+e.Error())
	}
	return strings.Join(messages, "\n")
}

// WithPath returns a copy of errs where every error that doesn't
// already have a path attached is anchored at p.
func (errs ValidationErrors) WithPath(p string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for i, e := range errs {
		if len(e.Path) == 0 && p != "" {
			e.ErrorMessage = fmt.Sprintf("%s: %s", p, e.ErrorMessage)
		}
		out[i] = e
	}
	return out
}

// errorFormatter makes it easy to keep a list of validation errors
// scoped to the current descent path. They should all be packed into a
// single error object before leaving the package boundary, since it's
// weird to have functions not return a plain error type.
type errorFormatter struct {
	path fieldpath.Path
}

func (ef *errorFormatter) descend(pe fieldpath.PathElement) errorFormatter {
	return errorFormatter{path: append(append(fieldpath.Path{}, ef.path...), pe)}
}

func (ef errorFormatter) errorf(format string, args ...interface{}) ValidationErrors {
	return ValidationErrors{{
		Path:         append(fieldpath.Path{}, ef.path...),
		ErrorMessage: fmt.Sprintf(format, args...),
	}}
}

func (ef errorFormatter) error(err error) ValidationErrors {
	return ValidationErrors{{
		Path:         append(fieldpath.Path{}, ef.path...),
		ErrorMessage: err.Error(),
	}}
}

// atomHandler is the callback interface used when resolving a schema
// atom: exactly one of the do* methods is called, matching the kind of
// node the type reference resolved to.
type atomHandler interface {
	doScalar(*schema.Scalar) ValidationErrors
	doList(*schema.List) ValidationErrors
	doMap(*schema.Map) ValidationErrors
	doUntyped(*schema.Untyped) ValidationErrors

	errorf(msg string, args ...interface{}) ValidationErrors
}

func resolveSchema(s *schema.Schema, tr schema.TypeRef, v value.Value, ah atomHandler) ValidationErrors {
	a, ok := s.Resolve(tr)
	if !ok {
		name := "inlined type"
		if tr.NamedType != nil {
			name = *tr.NamedType
		}
		return ah.errorf("schema error: no type found matching: %v", name)
	}

	switch {
	case a.Scalar != nil:
		return ah.doScalar(a.Scalar)
	case a.List != nil:
		return ah.doList(a.List)
	case a.Map != nil:
		return ah.doMap(a.Map)
	case a.Untyped != nil:
		return ah.doUntyped(a.Untyped)
	}

	return ah.errorf("schema error: invalid atom")
}

// listValue returns the list, or an error. nil is a valid list and
// might be returned.
func listValue(a value.Allocator, val value.Value) (value.List, error) {
	switch {
	case val.IsNull():
		return nil, nil
	case val.IsList():
		return val.AsListUsing(a), nil
	default:
		return nil, fmt.Errorf("expected list, got %v", value.ToString(val))
	}
}

// mapValue returns the map, or an error. nil is a valid map and might
// be returned.
func mapValue(a value.Allocator, val value.Value) (value.Map, error) {
	switch {
	case val.IsNull():
		return nil, nil
	case val.IsMap():
		return val.AsMapUsing(a), nil
	default:
		return nil, fmt.Errorf("expected map, got %v", value.ToString(val))
	}
}

func keyedAssociativeListItemToPathElement(a value.Allocator, list *schema.List, index int, child value.Value) (fieldpath.PathElement, error) {
	pe := fieldpath.PathElement{}
	if child.IsNull() {
		// For now, the keys are required which means that null entries
		// are illegal.
		return pe, errors.New("associative list with keys may not have a null element")
	}
	if !child.IsMap() {
		return pe, errors.New("associative list with keys may not have non-map elements")
	}
	m := child.AsMapUsing(a)
	defer m.Recycle()
	fields := value.FieldList{}
	for _, fieldName := range list.Keys {
		fieldValue, ok := m.Get(fieldName)
		if !ok {
			// Treat keys as required.
			return pe, errors.New("associative list with keys has an element that omits key field " + fieldName)
		}
		fields = append(fields, value.Field{Name: fieldName, Value: fieldValue})
	}
	fields.Sort()
	pe.Key = &fields
	return pe, nil
}

func setItemToPathElement(a value.Allocator, list *schema.List, index int, child value.Value) (fieldpath.PathElement, error) {
	pe := fieldpath.PathElement{}
	switch {
	case child.IsMap():
		// TODO: atomic maps should be acceptable.
		return pe, errors.New("associative list without keys has an element that's a map type")
	case child.IsList():
		// Should we support a set of lists? For the moment let's say we
		// don't.
		// TODO: atomic lists should be acceptable.
		return pe, errors.New("not supported: associative list with lists as elements")
	case child.IsNull():
		return pe, errors.New("associative list without keys has an element that's an explicit null")
	default:
		// We are a set type.
		pe.Value = &child
		return pe, nil
	}
}

// isAtomic reports whether the type that tr refers to is atomic: an
// atomic list or map (or an untyped node marked atomic) has no
// separately-owned sub-fields, so its whole value is treated as a
// single leaf.
func isAtomic(v value.Value, s *schema.Schema, tr schema.TypeRef) (bool, ValidationErrors) {
	a, ok := s.Resolve(tr)
	if !ok {
		name := "inlined type"
		if tr.NamedType != nil {
			name = *tr.NamedType
		}
		return false,ValidationErrors{{ErrorMessage: fmt.Sprintf("schema error: no type found matching: %v", name)}}
	}
	switch {
	case a.Map != nil:
		return a.Map.ElementRelationship == schema.Atomic, nil
	case a.List != nil:
		return a.List.ElementRelationship == schema.Atomic, nil
	case a.Untyped != nil:
		return a.Untyped.ElementRelationship == schema.Atomic, nil
	default:
		return true, nil
	}
}

// retainOnlyListKeys deletes every field of m that isn't named in keys.
func retainOnlyListKeys(keys []string, m value.Map) {
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}
	var toDelete []string
	m.Iterate(func(k string, _ value.Value) bool {
		if _, ok := keySet[k]; !ok {
			toDelete = append(toDelete, k)
		}
		return true
	})
	for _, k := range toDelete {
		m.Delete(k)
	}
}

// listItemToPathElement computes the path element identifying the
// given list item, according to the list's element relationship: keyed
// associative lists are identified by their key fields, unkeyed
// associative (set) lists by their own value, and atomic lists by
// index.
func listItemToPathElement(a value.Allocator, list *schema.List, index int, child value.Value) (fieldpath.PathElement, error) {
	if list.ElementRelationship == schema.Associative {
		if len(list.Keys) > 0 {
			return keyedAssociativeListItemToPathElement(a, list, index, child)
		}

		// If there's no keys, then we must be a set of primitives.
		return setItemToPathElement(a, list, index, child)
	}

	// Use the index as a key for atomic lists.
	i := index
	return fieldpath.PathElement{Index: &i}, nil
}
