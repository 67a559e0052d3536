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
)

// mapReflect wraps a reflect.Value of Kind Map and exposes it as a Map.
type mapReflect struct {
	valueReflect
}

func (r mapReflect) Length() int {
	return r.Value.Len()
}

func (r mapReflect) Empty() bool {
	return r.Value.Len() == 0
}

func (r mapReflect) Get(key string) (Value, bool) {
	k, v, ok := r.get(key)
	if !ok {
		return nil, false
	}
	return mustWrapValueReflect(v, &r.Value, strPtr(k.String())), true
}

func strPtr(s string) *string { return &s }

func (r mapReflect) get(k string) (key, value reflect.Value, ok bool) {
	mapKey := r.toMapKey(k)
	val := r.Value.MapIndex(mapKey)
	return mapKey, val, val.IsValid()
}

func (r mapReflect) Has(key string) bool {
	val := r.Value.MapIndex(r.toMapKey(key))
	return val.IsValid()
}

func (r mapReflect) Set(key string, val Value) {
	r.Value.SetMapIndex(r.toMapKey(key), reflect.ValueOf(val.Unstructured()))
}

func (r mapReflect) Delete(key string) {
	r.Value.SetMapIndex(r.toMapKey(key), reflect.Value{})
}

func (r mapReflect) toMapKey(key string) reflect.Value {
	return reflect.ValueOf(key).Convert(r.Value.Type().Key())
}

func (r mapReflect) Iterate(fn func(string, Value) bool) bool {
	if r.Value.Len() == 0 {
		return true
	}
	iter := r.Value.MapRange()
	for iter.Next() {
		next := iter.Value()
		if !next.IsValid() {
			continue
		}
		key := iter.Key()
		if !fn(key.String(), mustWrapValueReflect(next, &r.Value, strPtr(key.String()))) {
			return false
		}
	}
	return true
}

func (r mapReflect) Unstructured() interface{} {
	result := make(map[string]interface{}, r.Length())
	r.Iterate(func(s string, value Value) bool {
		result[s] = value.Unstructured()
		return true
	})
	return result
}

func (r mapReflect) Equals(m Map) bool {
	lhsLength := r.Length()
	rhsLength := m.Length()
	if lhsLength != rhsLength {
		return false
	}
	if lhsLength == 0 {
		return true
	}
	return m.Iterate(func(key string, value Value) bool {
		_, lhsVal, ok := r.get(key)
		if !ok {
			return false
		}
		return Equals(mustWrapValueReflect(lhsVal, nil, nil), value)
	})
}

func (r mapReflect) Zip(other Map, order MapTraverseOrder, fn func(key string, lhs, rhs Value) bool) bool {
	return defaultMapZip(r, other, order, fn)
}

func (r *mapReflect) Recycle() {
	HeapAllocator.Free(r)
}
