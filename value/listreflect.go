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

type listReflect struct {
	Value reflect.Value
}

func (r listReflect) Length() int {
	return r.Value.Len()
}

func (r listReflect) At(i int) Value {
	return mustWrapValueReflect(r.Value.Index(i), nil, nil)
}

func (r listReflect) Unstructured() interface{} {
	l := r.Length()
	result := make([]interface{}, l)
	for i := 0; i < l; i++ {
		result[i] = r.At(i).Unstructured()
	}
	return result
}

func (r listReflect) Equals(other List) bool {
	if r.Length() != other.Length() {
		return false
	}
	for i := 0; i < r.Length(); i++ {
		if !Equals(r.At(i), other.At(i)) {
			return false
		}
	}
	return true
}

func (r listReflect) Range() ListRange {
	return r.RangeUsing(HeapAllocator)
}

func (r listReflect) RangeUsing(a Allocator) ListRange {
	if r.Value.Len() == 0 {
		return &listReflectRange{i: -1}
	}
	rr := a.allocListReflectRange()
	rr.list = r.Value
	rr.i = -1
	return rr
}

func (r *listReflect) Recycle() {
	HeapAllocator.Free(r)
}

type listReflectRange struct {
	list reflect.Value
	vr   *valueReflect
	i    int
}

func (r *listReflectRange) Next() bool {
	r.i++
	return r.i < r.list.Len()
}

func (r *listReflectRange) Item() (index int, value Value) {
	if r.i < 0 {
		panic("Item() called before first calling Next()")
	}
	if r.i >= r.list.Len() {
		panic("Item() called on ListRange with no more items")
	}
	if r.vr == nil {
		return r.i, mustWrapValueReflect(r.list.Index(r.i), nil, nil)
	}
	return r.i, r.vr.reuse(r.list.Index(r.i), nil, nil)
}

func (r *listReflectRange) Recycle() {
	HeapAllocator.Free(r)
}
