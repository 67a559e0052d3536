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

package fieldpath

import (
	"fmt"
	"strings"

	"github.com/fieldkit/structfield/value"
)

// PathElement describes a step into a particular part of an object. Which
// fields are set depends on the schema node being descended into: a plain
// struct/map field uses FieldName, an associative list item uses Key, a set
// item uses Value, and an atomic (unkeyed) list item uses Index.
type PathElement struct {
	// FieldName selects a field by name.
	FieldName *string

	// Key selects an associative list item by the values of its key fields.
	Key *value.FieldList

	// Value selects a "set" list item by its own (scalar) value.
	Value *value.Value

	// Index selects an item of an atomic list by position.
	Index *int
}

// Less provides an order for PathElements; it's consistent, but otherwise
// arbitrary.
func (e PathElement) Less(rhs PathElement) bool {
	return e.Compare(rhs) < 0
}

// Compare provides a total order over PathElement.
func (e PathElement) Compare(rhs PathElement) int {
	if e.FieldName != nil {
		if rhs.FieldName == nil {
			return -1
		}
		return strings.Compare(*e.FieldName, *rhs.FieldName)
	} else if rhs.FieldName != nil {
		return 1
	}

	if e.Key != nil {
		if rhs.Key == nil {
			return -1
		}
		return e.Key.Compare(*rhs.Key)
	} else if rhs.Key != nil {
		return 1
	}

	if e.Value != nil {
		if rhs.Value == nil {
			return -1
		}
		return value.Compare(*e.Value, *rhs.Value)
	} else if rhs.Value != nil {
		return 1
	}

	if e.Index != nil {
		if rhs.Index == nil {
			return -1
		}
		return *e.Index - *rhs.Index
	} else if rhs.Index != nil {
		return 1
	}

	return 0
}

// String presents the path element as a human-readable string.
func (e PathElement) String() string {
	switch {
	case e.FieldName != nil:
		return "." + *e.FieldName
	case e.Key != nil:
		strs := make([]string, len(*e.Key))
		for i, k := range *e.Key {
			strs[i] = fmt.Sprintf("%v=%v", k.Name, value.ToString(k.Value))
		}
		return "[" + strings.Join(strs, ",") + "]"
	case e.Value != nil:
		return fmt.Sprintf("[=%v]", value.ToString(*e.Value))
	case e.Index != nil:
		return fmt.Sprintf("[%v]", *e.Index)
	default:
		return "{{invalid path element}}"
	}
}

// Path describes a path through an object, as a sequence of steps.
type Path []PathElement

// String presents the path as a human-readable string.
func (p Path) String() string {
	strs := make([]string, len(p))
	for i, pe := range p {
		strs[i] = pe.String()
	}
	return strings.Join(strs, "")
}

// Equals returns true if the two paths are equal.
func (p Path) Equals(p2 Path) bool {
	if len(p) != len(p2) {
		return false
	}
	for i := range p {
		if p[i].Compare(p2[i]) != 0 {
			return false
		}
	}
	return true
}

// MakePath builds a Path from a list of path components: strings become
// FieldName steps, ints become Index steps, a value.Value becomes a
// Value step, and a PathElement (typically from KeyByFields) is taken
// as-is. Any other type is rejected with an error.
func MakePath(elements ...interface{}) (Path, error) {
	path := make(Path, len(elements))
	for i, e := range elements {
		switch t := e.(type) {
		case string:
			path[i].FieldName = &t
		case int:
			path[i].Index = &t
		case PathElement:
			path[i] = t
		case value.Value:
			path[i].Value = &t
		default:
			return nil, fmt.Errorf("unable to make path element from %#v (type %T)", e, e)
		}
	}
	return path, nil
}

// MakePathOrDie panics if the path can't be constructed. Useful for tests
// and for building constant-ish paths.
func MakePathOrDie(elements ...interface{}) Path {
	p, err := MakePath(elements...)
	if err != nil {
		panic(err)
	}
	return p
}

// KeyByFields is a helper function for constructing a key PathElement from a
// list of alternating field name / field value pairs.
func KeyByFields(nameValues ...interface{}) PathElement {
	if len(nameValues)%2 != 0 {
		panic("must have a value for every name")
	}
	fields := value.FieldList{}
	for i := 0; i < len(nameValues); i += 2 {
		name, ok := nameValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("expected string as a key name, got %T", nameValues[i]))
		}
		var val value.Value
		switch v := nameValues[i+1].(type) {
		case value.Value:
			val = v
		default:
			val = value.NewValueInterface(v)
		}
		fields = append(fields, value.Field{Name: name, Value: val})
	}
	fields.Sort()
	return PathElement{Key: &fields}
}
