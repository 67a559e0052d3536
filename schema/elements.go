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

// Package schema describes the shape of typed data: which fields exist,
// what kind of value each one holds, and how the elements of lists and
// maps relate to each other (atomic, associative or separable). The
// typed package walks a schema together with a value.Value to merge,
// compare, validate or prune a piece of data.
package schema

// Schema is a list of types.
type Schema struct {
	Types []TypeDef `yaml:"types,omitempty"`
}

// A TypeSpecifier references a particular type in a schema.
type TypeSpecifier struct {
	Type   TypeRef `yaml:"type,omitempty"`
	Schema Schema  `yaml:"schema,omitempty"`
}

// TypeDef represents a node in a schema.
type TypeDef struct {
	// Top level types should be named. Every type must have a unique name.
	Name string `yaml:"name,omitempty"`

	Atom `yaml:"atom,omitempty,inline"`
}

// TypeRef either refers to a named type or declares an inlined type.
type TypeRef struct {
	// Either the name or one member of Atom should be set.
	NamedType *string `yaml:"namedType,omitempty"`
	Inlined   Atom    `yaml:"inlined,inline,omitempty"`
}

// Atom represents the smallest possible pieces of the type system.
// Exactly one field should be set.
type Atom struct {
	*Scalar  `yaml:"scalar,omitempty"`
	*List    `yaml:"list,omitempty"`
	*Map     `yaml:"map,omitempty"`
	*Untyped `yaml:"untyped,omitempty"`
}

// Scalar (AKA "primitive") has a single value which is either numeric, string,
// or boolean.
type Scalar string

const (
	Numeric = Scalar("numeric")
	String  = Scalar("string")
	Boolean = Scalar("boolean")
)

// ElementRelationship is an enum of the different possible relationships
// between the elements of container types.
type ElementRelationship string

const (
	// Associative only applies to lists (see the documentation there).
	Associative = ElementRelationship("associative")
	// Atomic makes container types (lists, maps, untyped) behave
	// as scalars / leaf fields (default for untyped data).
	Atomic = ElementRelationship("atomic")
	// Separable means the items of the container type have no particular
	// relationship (default behavior for maps).
	Separable = ElementRelationship("separable")
)

// StructField pairs a field name with a field type. It appears in the
// Fields list of a Map that is behaving like a struct (a fixed,
// named set of heterogeneously typed fields).
type StructField struct {
	// Name is the field name.
	Name string `yaml:"name,omitempty"`
	// Type is the field type.
	Type TypeRef `yaml:"type,omitempty"`
}

// List has zero or more elements, all of the same type, of some type.
type List struct {
	ElementType TypeRef `yaml:"elementType,omitempty"`

	// ElementRelationship states the relationship between the list's elements
	// and must have one of these values:
	// * `atomic`: the list is treated as a single entity, like a scalar.
	// * `associative`:
	//   - If the list element is a scalar, the list is treated as a set.
	//   - If the list element is a struct (a Map with named Fields), the
	//     list is treated as a map keyed by Keys.
	//   - The list element must not be a map or a list itself.
	// There is no default for this value for lists; all schemas must
	// explicitly state the element relationship for all lists.
	ElementRelationship ElementRelationship `yaml:"elementRelationship,omitempty"`

	// Iff ElementRelationship is `associative`, and the element type has
	// named fields, then Keys must have non-zero length, and it lists the
	// fields of the element's type which are to be used as the keys of
	// the list.
	//
	// Each key must refer to a single field name (no nesting, not JSONPath).
	Keys []string `yaml:"keys,omitempty"`
}

// Map is either a set of named fields (a "struct") or a homogeneous
// mapping from string keys to a single element type (a "map"), or
// both: named Fields take priority, and any key not appearing in
// Fields is treated as an instance of ElementType.
//
// Its semantics are the same as an associative list, but:
// * It is serialized differently:
//     map:  {"k": {"value": "v"}}
//     list: [{"key": "k", "value": "v"}]
// * Keys must be string typed.
// * Keys can't have multiple components.
type Map struct {
	// Fields, if set, describes the named members of this map. Unlike
	// ElementType, each field may have a different type.
	Fields []StructField `yaml:"fields,omitempty"`

	// ElementType is the type of any value whose key is not found in
	// Fields. If Fields is unset, every value in the map has this type.
	ElementType TypeRef `yaml:"elementType,omitempty"`

	// ElementRelationship states the relationship between the map's items.
	// * `separable` (or unset) implies that each element is 100% independent.
	// * `atomic` implies that all elements depend on each other, and this
	//   is effectively a scalar / leaf field; it doesn't make sense for
	//   separate actors to set the elements. Example: an RGB color struct;
	//   it would never make sense to "own" only one component of the color.
	// The default behavior for maps is `separable`; it's permitted to
	// leave this unset to get the default behavior.
	ElementRelationship ElementRelationship `yaml:"elementRelationship,omitempty"`

	// PreserveUnknownFields says that keys not found in Fields, and not
	// matched by ElementType, should still be kept (as untyped data)
	// rather than rejected by validation.
	PreserveUnknownFields bool `yaml:"preserveUnknownFields,omitempty"`
}

// FindField returns the named field and true, or a zero StructField and
// false if the map has no field by that name.
func (m Map) FindField(name string) (StructField, bool) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return m.Fields[i], true
		}
	}
	return StructField{}, false
}

// Untyped is used for fields that allow arbitrary content. (Think: plugin
// objects.)
type Untyped struct {
	// ElementRelationship states the relationship between the items, if
	// container-typed data happens to be present here.
	// * `atomic` implies that all elements depend on each other, and this
	//   is effectively a scalar / leaf field; it doesn't make sense for
	//   separate actors to set the elements.
	// The default behavior for untyped data is `atomic`; it's permitted to
	// leave this unset to get the default behavior.
	ElementRelationship ElementRelationship `yaml:"elementRelationship,omitempty"`
}

// FindNamedType returns the referenced TypeDef, if it exists, or (nil, false)
// if it doesn't.
func (s Schema) FindNamedType(name string) (TypeDef, bool) {
	for _, t := range s.Types {
		if t.Name == name {
			return t, true
		}
	}
	return TypeDef{}, false
}

// Resolve returns the atom referenced, whether it is inline or
// named. Returns Atom{}, false if the type can't be resolved. Allows callers
// to not care about the difference between a (possibly inlined) reference and
// a definition.
func (s Schema) Resolve(tr TypeRef) (Atom, bool) {
	if tr.NamedType != nil {
		t, ok := s.FindNamedType(*tr.NamedType)
		if !ok {
			return Atom{}, false
		}
		return t.Atom, true
	}
	return tr.Inlined, true
}
