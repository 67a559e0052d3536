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

package value

import (
	"fmt"
	"sync"

	yaml "sigs.k8s.io/yaml"
)

// viPool recycles the valueUnstructured wrappers produced by
// NewValueInterface, so that walking a large decoded document doesn't
// allocate one wrapper per field.
var viPool = sync.Pool{
	New: func() interface{} {
		return &valueUnstructured{}
	},
}

// valueUnstructured is a Value backed by a plain Go value, typically
// the result of decoding JSON or YAML into interface{}, or a literal
// map[string]interface{}/[]interface{} tree built up by hand.
type valueUnstructured struct {
	Value interface{}
}

// NewValueInterface creates a Value backed by the given plain Go
// value. v is typically the result of unmarshaling JSON or YAML into
// an interface{}.
func NewValueInterface(v interface{}) Value {
	vv := viPool.Get().(*valueUnstructured)
	return vv.reuse(v)
}

func (v *valueUnstructured) reuse(value interface{}) Value {
	v.Value = value
	return v
}

func (v *valueUnstructured) Recycle() {
	v.Value = nil
	viPool.Put(v)
}

func (v valueUnstructured) IsMap() bool {
	if _, ok := v.Value.(map[string]interface{}); ok {
		return true
	}
	_, ok := v.Value.(map[interface{}]interface{})
	return ok
}

func (v valueUnstructured) IsList() bool {
	_, ok := v.Value.([]interface{})
	return ok
}

func (v valueUnstructured) IsFloat() bool {
	switch v.Value.(type) {
	case float32, float64:
		return true
	default:
		return false
	}
}

func (v valueUnstructured) IsInt() bool {
	switch v.Value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func (v valueUnstructured) IsString() bool {
	_, ok := v.Value.(string)
	return ok
}

func (v valueUnstructured) IsBool() bool {
	_, ok := v.Value.(bool)
	return ok
}

func (v valueUnstructured) IsNull() bool {
	return v.Value == nil
}

func (v valueUnstructured) AsMap() Map {
	return v.AsMapUsing(HeapAllocator)
}

func (v valueUnstructured) AsMapUsing(Allocator) Map {
	switch t := v.Value.(type) {
	case map[string]interface{}:
		return mapUnstructuredString(t)
	case map[interface{}]interface{}:
		return mapUnstructuredInterface(t)
	default:
		panic(fmt.Sprintf("not a map: %#v", v.Value))
	}
}

func (v valueUnstructured) AsList() List {
	return v.AsListUsing(HeapAllocator)
}

func (v valueUnstructured) AsListUsing(Allocator) List {
	switch t := v.Value.(type) {
	case []interface{}:
		return listUnstructured(t)
	default:
		panic(fmt.Sprintf("not a list: %#v", v.Value))
	}
}

func (v valueUnstructured) AsBool() bool {
	b, ok := v.Value.(bool)
	if !ok {
		panic(fmt.Sprintf("not a bool: %#v", v.Value))
	}
	return b
}

func (v valueUnstructured) AsInt() int64 {
	switch t := v.Value.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return int64(t)
	default:
		panic(fmt.Sprintf("not an int: %#v", v.Value))
	}
}

func (v valueUnstructured) AsFloat() float64 {
	switch t := v.Value.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	default:
		panic(fmt.Sprintf("not a float: %#v", v.Value))
	}
}

func (v valueUnstructured) AsString() string {
	s, ok := v.Value.(string)
	if !ok {
		panic(fmt.Sprintf("not a string: %#v", v.Value))
	}
	return s
}

func (v valueUnstructured) Unstructured() interface{} {
	return v.Value
}

// FromYAML decodes a YAML document into a Value backed by plain Go
// types (map[string]interface{}, []interface{}, and scalars).
func FromYAML(input []byte) (Value, error) {
	var decoded interface{}
	if err := yaml.Unmarshal(input, &decoded); err != nil {
		return nil, fmt.Errorf("error decoding YAML: %v", err)
	}
	return NewValueInterface(decoded), nil
}

// FromJSON decodes a JSON document into a Value backed by plain Go
// types (map[string]interface{}, []interface{}, and scalars).
func FromJSON(input []byte) (Value, error) {
	return FromYAML(input)
}

// ToYAML renders v as a YAML document.
func ToYAML(v Value) ([]byte, error) {
	return yaml.Marshal(v.Unstructured())
}
