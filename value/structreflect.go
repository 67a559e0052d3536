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
	"fmt"
	"reflect"
)

// structReflect wraps a reflect.Value of Kind Struct and exposes it as a
// Map, using the `json` tag on each exported field as its key.
type structReflect struct {
	valueReflect
}

func (r structReflect) Length() int {
	i := 0
	eachStructField(r.Value, func(s string, value reflect.Value) bool {
		i++
		return true
	})
	return i
}

func (r structReflect) Empty() bool {
	empty := true
	eachStructField(r.Value, func(s string, value reflect.Value) bool {
		empty = false
		return false
	})
	return empty
}

func (r structReflect) Get(key string) (Value, bool) {
	if val, ok := r.findJsonNameField(key); ok {
		return mustWrapValueReflect(val, nil, nil), true
	}
	return nil, false
}

func (r structReflect) Has(key string) bool {
	_, ok := r.findJsonNameField(key)
	return ok
}

func (r structReflect) Set(key string, val Value) {
	fieldVal, ok := r.findJsonNameField(key)
	if !ok {
		panic(fmt.Sprintf("key %s may not be set on struct %T: field does not exist", key, r.Value.Interface()))
	}
	if !fieldVal.CanSet() {
		// See https://blog.golang.org/laws-of-reflection for details on why a struct may not be settable
		panic(fmt.Sprintf("key %s may not be set on struct: %T: struct is not settable", key, r.Value.Interface()))
	}
	fieldVal.Set(reflect.ValueOf(val.Unstructured()))
}

func (r structReflect) Delete(key string) {
	fieldVal, ok := r.findJsonNameField(key)
	if !ok {
		panic(fmt.Sprintf("key %s may not be deleted on struct %T: field does not exist", key, r.Value.Interface()))
	}
	if !fieldVal.CanSet() {
		panic(fmt.Sprintf("key %s may not be deleted on struct: %T: struct is not settable", key, r.Value.Interface()))
	}
	fieldVal.Set(reflect.Zero(fieldVal.Type()))
}

func (r structReflect) Iterate(fn func(string, Value) bool) bool {
	return eachStructField(r.Value, func(s string, value reflect.Value) bool {
		v := mustWrapValueReflect(value, nil, nil)
		defer v.Recycle()
		return fn(s, v)
	})
}

func eachStructField(structVal reflect.Value, fn func(string, reflect.Value) bool) bool {
	entry := TypeReflectEntryOf(structVal.Type())
	for jsonName, fieldEntry := range entry.Fields() {
		fieldVal := fieldEntry.GetFrom(structVal)
		if fieldEntry.isOmitEmpty && (safeIsNil(fieldVal) || isZero(fieldVal)) {
			continue
		}
		if !fn(jsonName, fieldVal) {
			return false
		}
	}
	return true
}

func (r structReflect) Unstructured() interface{} {
	result := make(map[string]interface{}, r.Value.NumField())
	r.Iterate(func(s string, value Value) bool {
		result[s] = value.Unstructured()
		return true
	})
	return result
}

func (r structReflect) Equals(m Map) bool {
	if rhsStruct, ok := m.(structReflect); ok {
		return reflect.DeepEqual(r.Value.Interface(), rhsStruct.Value.Interface())
	}
	if r.Length() != m.Length() {
		return false
	}
	return m.Iterate(func(s string, value Value) bool {
		lhsVal, ok := r.findJsonNameField(s)
		if !ok {
			return false
		}
		return Equals(mustWrapValueReflect(lhsVal, nil, nil), value)
	})
}

func (r structReflect) Zip(other Map, order MapTraverseOrder, fn func(key string, lhs, rhs Value) bool) bool {
	return defaultMapZip(r, other, order, fn)
}

func (r structReflect) findJsonNameField(jsonName string) (reflect.Value, bool) {
	fieldEntry, ok := TypeReflectEntryOf(r.Value.Type()).Fields()[jsonName]
	if !ok {
		return reflect.Value{}, false
	}
	fieldVal := fieldEntry.GetFrom(r.Value)
	omit := fieldEntry.isOmitEmpty && (safeIsNil(fieldVal) || isZero(fieldVal))
	return fieldVal, !omit
}

func (r *structReflect) Recycle() {
	HeapAllocator.Free(r)
}
