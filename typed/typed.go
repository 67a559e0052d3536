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
	"github.com/fieldkit/structfield/fieldpath"
	"github.com/fieldkit/structfield/schema"
	"github.com/fieldkit/structfield/value"
)

// TypedValue is a value together with the schema type it conforms to.
// It is the unit that Merge, Compare and the field-extraction
// operations all operate on.
type TypedValue struct {
	value   value.Value
	typeRef schema.TypeRef
	schema  *schema.Schema
}

// AsTyped accepts a value and a type and returns a TypedValue. 'v' must
// have type 'typeName' in the schema. An error is returned if v doesn't
// conform to the schema.
func AsTyped(v value.Value, s *schema.Schema, typeName string) (*TypedValue, error) {
	tv := &TypedValue{
		value:   v,
		typeRef: schema.TypeRef{NamedType: &typeName},
		schema:  s,
	}
	if err := tv.Validate(); err != nil {
		return nil, err
	}
	return tv, nil
}

// AsTypedUnvalidated is just like AsTyped, but doesn't validate that the
// value conforms to the schema -- for cases where that has already been
// checked, or where a subsequent call (like ToFieldSet) validates as a
// side-effect.
func AsTypedUnvalidated(v value.Value, s *schema.Schema, typeName string) *TypedValue {
	return &TypedValue{
		value:   v,
		typeRef: schema.TypeRef{NamedType: &typeName},
		schema:  s,
	}
}

// AsValue removes the type information from tv, returning the bare
// value.
func (tv *TypedValue) AsValue() value.Value {
	return tv.value
}

// Schema returns the schema that tv was parsed against.
func (tv *TypedValue) Schema() *schema.Schema {
	return tv.schema
}

// TypeRef returns the type that tv conforms to within its schema.
func (tv *TypedValue) TypeRef() schema.TypeRef {
	return tv.typeRef
}

// Validate returns an error with a list of every spec violation.
func (tv *TypedValue) Validate() error {
	if errs := tv.walker().validate(); len(errs) != 0 {
		return errs
	}
	return nil
}

// ToFieldSet creates a set containing every leaf field mentioned in tv,
// or validation errors if any were encountered.
func (tv *TypedValue) ToFieldSet() (*fieldpath.Set, error) {
	s := fieldpath.NewSet()
	w := tv.walker()
	w.leafFieldCallback = func(p fieldpath.Path) { s.Insert(p) }
	if errs := w.validate(); len(errs) != 0 {
		return nil, errs
	}
	return s, nil
}

// Merge returns the result of merging pc into tv, following the
// element relationships declared by the schema.
func (tv *TypedValue) Merge(pc *TypedValue) (*TypedValue, error) {
	return merge(tv, pc, ruleKeepRHS)
}

// Compare compares tv and rhs, reporting the set of fields added,
// modified, or removed going from tv to rhs.
func (tv *TypedValue) Compare(rhs *TypedValue) (c *Comparison, err error) {
	c = &Comparison{
		Added:    fieldpath.NewSet(),
		Modified: fieldpath.NewSet(),
		Removed:  fieldpath.NewSet(),
	}
	_, err = merge(tv, rhs, func(w *mergingWalker) {
		if w.lhs == nil {
			c.Added.Insert(w.path)
		} else if w.rhs == nil {
			c.Removed.Insert(w.path)
		} else if !value.Equals(*w.lhs, *w.rhs) {
			c.Modified.Insert(w.path)
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Remove returns tv with everything in toRemove taken out of it.
func (tv *TypedValue) Remove(toRemove *fieldpath.Set) *TypedValue {
	tv2 := *tv
	tv2.value = removeWithSchema(tv.value, toRemove, tv.schema, tv.typeRef, false)
	return &tv2
}

// RemoveItems removes the items from a list or map that match the
// entries mentioned in toRemove, without removing the field owning the
// list or map itself.
func (tv *TypedValue) RemoveItems(toRemove *fieldpath.Set) *TypedValue {
	tv2 := *tv
	tv2.value = removeWithSchema(tv.value, toRemove, tv.schema, tv.typeRef, true)
	return &tv2
}

// ExtractItems returns a TypedValue containing only the fields named by
// toExtract (the reverse of Remove).
func (tv *TypedValue) ExtractItems(toExtract *fieldpath.Set) *TypedValue {
	tv2 := *tv
	tv2.value = extractItemsWithSchema(tv.value, toExtract, tv.schema, tv.typeRef, true)
	return &tv2
}

// CompleteKeys returns a copy of tv in which every keyed associative
// list item that is missing one or more of its declared key fields has
// those keys filled in, using a fully-specified item from defaulted
// that agrees with it on every key field it does carry. tv is left
// untouched. It returns an error if two items in tv's own list are
// indistinguishable given the fields they specify, or if more than one
// item in defaulted could complete the same item.
func (tv *TypedValue) CompleteKeys(defaulted *TypedValue) (*TypedValue, error) {
	var defaultedValue value.Value
	if defaulted != nil {
		defaultedValue = defaulted.value
	}
	out, err := completeKeysValue(tv.schema, tv.typeRef, tv.value, defaultedValue)
	if err != nil {
		return nil, err
	}
	return &TypedValue{schema: tv.schema, typeRef: tv.typeRef, value: out}, nil
}
