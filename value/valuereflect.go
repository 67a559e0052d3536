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
	"encoding/base64"
	"fmt"
	"reflect"
	"sync"
)

var reflectPool = sync.Pool{
	New: func() interface{} {
		return &valueReflect{}
	},
}

// NewValueReflect creates a Value backed by an "interface{}" type,
// typically a native Go struct that is exposed via reflection rather than
// pre-decoded into a map/list representation.
// The provided "interface{}" may contain structs and types that are converted to Values
// by the json.Marshaler interface, json.Unmarshaler interface, or UnstructuredConverter interface.
func NewValueReflect(value interface{}) (Value, error) {
	if value == nil {
		return NewValueInterface(nil), nil
	}
	return wrapValueReflect(reflect.ValueOf(value), nil, nil)
}

func wrapValueReflect(value reflect.Value, parentMap *reflect.Value, parentMapKey *string) (Value, error) {
	val := dereference(value)
	entry := TypeReflectEntryOf(val.Type())
	if entry.CanConvertToUnstructured() {
		u, err := entry.ToUnstructured(val)
		if err != nil {
			return nil, err
		}
		return NewValueInterface(u), nil
	}
	vr := reflectPool.Get().(*valueReflect)
	vr.Value = val
	vr.ParentMap = parentMap
	vr.ParentMapKey = parentMapKey
	return vr, nil
}

func mustWrapValueReflect(value reflect.Value, parentMap *reflect.Value, parentMapKey *string) Value {
	v, err := wrapValueReflect(value, parentMap, parentMapKey)
	if err != nil {
		panic(err)
	}
	return v
}

func dereference(val reflect.Value) reflect.Value {
	kind := val.Kind()
	if (kind == reflect.Interface || kind == reflect.Ptr) && !safeIsNil(val) {
		return val.Elem()
	}
	return val
}

// valueReflect wraps a reflect.Value so that it implements the Value
// interface. If the reflected value was obtained from an unaddressable
// map entry, ParentMap and ParentMapKey record where it came from so
// that a later Set writes the modified copy back into the map.
type valueReflect struct {
	ParentMap    *reflect.Value
	ParentMapKey *string
	Value        reflect.Value
}

func (r valueReflect) IsMap() bool {
	return r.isKind(reflect.Map, reflect.Struct)
}

func (r valueReflect) IsList() bool {
	typ := r.Value.Type()
	return typ.Kind() == reflect.Slice && typ.Elem().Kind() != reflect.Uint8
}

func (r valueReflect) IsBool() bool {
	return r.isKind(reflect.Bool)
}

func (r valueReflect) IsInt() bool {
	// Uint64 deliberately excluded, see valueUnstructured.AsInt.
	return r.isKind(reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8, reflect.Uint, reflect.Uint32, reflect.Uint16, reflect.Uint8)
}

func (r valueReflect) IsFloat() bool {
	return r.isKind(reflect.Float64, reflect.Float32)
}

func (r valueReflect) IsString() bool {
	kind := r.Value.Kind()
	if kind == reflect.String {
		return true
	}
	if kind == reflect.Slice && r.Value.Type().Elem().Kind() == reflect.Uint8 {
		return true
	}
	return false
}

func (r valueReflect) IsNull() bool {
	return safeIsNil(r.Value)
}

func (r valueReflect) isKind(kinds ...reflect.Kind) bool {
	kind := r.Value.Kind()
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// safeIsNil avoids panics from reflect.Value.IsNil() on kinds that don't support it.
func safeIsNil(v reflect.Value) bool {
	k := v.Kind()
	switch k {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr, reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func (r valueReflect) AsMap() Map {
	return r.AsMapUsing(HeapAllocator)
}

func (r valueReflect) AsMapUsing(a Allocator) Map {
	val := r.Value
	switch val.Kind() {
	case reflect.Struct:
		s := a.allocStructReflect()
		s.valueReflect = valueReflect{Value: r.Value}
		return s
	case reflect.Map:
		m := a.allocMapReflect()
		m.valueReflect = valueReflect{Value: r.Value}
		return m
	default:
		panic("value is not a map or struct")
	}
}

func (r *valueReflect) Recycle() {
	reflectPool.Put(r)
}

// reuse re-initializes r to wrap value, avoiding an allocation, and
// returns r.
func (r *valueReflect) reuse(value reflect.Value, parentMap *reflect.Value, parentMapKey *string) Value {
	val := dereference(value)
	entry := TypeReflectEntryOf(val.Type())
	if entry.CanConvertToUnstructured() {
		u, err := entry.ToUnstructured(val)
		if err != nil {
			panic(err)
		}
		return NewValueInterface(u)
	}
	r.Value = val
	r.ParentMap = parentMap
	r.ParentMapKey = parentMapKey
	return r
}

func (r valueReflect) AsList() List {
	return r.AsListUsing(HeapAllocator)
}

func (r valueReflect) AsListUsing(a Allocator) List {
	if !r.IsList() {
		panic("value is not a list")
	}
	l := a.allocListReflect()
	l.Value = r.Value
	return l
}

func (r valueReflect) AsBool() bool {
	if r.IsBool() {
		return r.Value.Bool()
	}
	panic("value is not a bool")
}

func (r valueReflect) AsInt() int64 {
	if r.isKind(reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8) {
		return r.Value.Int()
	}
	if r.isKind(reflect.Uint, reflect.Uint32, reflect.Uint16, reflect.Uint8) {
		return int64(r.Value.Uint())
	}

	panic("value is not an int")
}

func (r valueReflect) AsFloat() float64 {
	if r.IsFloat() {
		return r.Value.Float()
	}
	panic("value is not a float")
}

func (r valueReflect) AsString() string {
	kind := r.Value.Kind()
	if kind == reflect.String {
		return r.Value.String()
	}
	if kind == reflect.Slice && r.Value.Type().Elem().Kind() == reflect.Uint8 {
		return base64.StdEncoding.EncodeToString(r.Value.Bytes())
	}
	panic("value is not a string")
}

func (r valueReflect) Unstructured() interface{} {
	val := r.Value
	switch {
	case r.IsNull():
		return nil
	case val.Kind() == reflect.Struct:
		return structReflect{valueReflect{Value: r.Value}}.Unstructured()
	case val.Kind() == reflect.Map:
		return mapReflect{valueReflect{Value: r.Value}}.Unstructured()
	case r.IsList():
		return listReflect{Value: r.Value}.Unstructured()
	case r.IsString():
		return r.AsString()
	case r.IsInt():
		return r.AsInt()
	case r.IsBool():
		return r.AsBool()
	case r.IsFloat():
		return r.AsFloat()
	default:
		panic(fmt.Sprintf("value of type %s is not supported by the reflect value wrapper", val.Type()))
	}
}
