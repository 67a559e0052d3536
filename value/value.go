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

// Package value defines the set of types a field can carry (map, list
// and scalar) along with a handful of implementations: plain
// interface{}-backed ("unstructured") values and reflect.Value-backed
// values that read and mutate native Go structs directly. All of the
// merge, compare and schema-walking logic operates purely in terms of
// these interfaces, so it never needs to know which representation it
// is actually looking at.
package value

import (
	"fmt"
	"sort"
)

// Value is an interface allowing access to a field via accessor
// methods. It's akin to reflect.Value, but restricted to the handful
// of kinds a field can carry and cheap to compare for equality.
type Value interface {
	// IsMap returns true if the Value is a Map, or a struct.
	IsMap() bool
	// IsList returns true if the Value is a List.
	IsList() bool
	// IsBool returns true if the Value is a bool.
	IsBool() bool
	// IsInt returns true if the Value is an int64.
	IsInt() bool
	// IsFloat returns true if the Value is a float64.
	IsFloat() bool
	// IsString returns true if the Value is a string.
	IsString() bool
	// IsNull returns true if the Value is null.
	IsNull() bool

	// AsMap converts the Value into a Map, or panics if the Value
	// is not a Map.
	AsMap() Map
	// AsMapUsing is like AsMap, but allows the caller to pass an
	// allocator that should be used to create the result, and which
	// must eventually be freed by passing the result to
	// Allocator.Free.
	AsMapUsing(Allocator) Map
	// AsList converts the Value into a List, or panics if the Value
	// is not a List.
	AsList() List
	// AsListUsing is like AsList, but allows the caller to pass an
	// allocator that should be used to create the result, and which
	// must eventually be freed by passing the result to
	// Allocator.Free.
	AsListUsing(Allocator) List
	// AsBool converts the Value into a bool, or panics if the Value
	// is not a bool.
	AsBool() bool
	// AsInt converts the Value into an int64, or panics if the Value
	// is not an int64.
	AsInt() int64
	// AsFloat converts the Value into a float64, or panics if the
	// Value is not a float64.
	AsFloat() float64
	// AsString converts the Value into a string, or panics if the
	// Value is not a string.
	AsString() string

	// Unstructured converts the Value into a plain go type
	// (map[string]interface{}, []interface{}, int64, float64,
	// string, bool, or nil).
	Unstructured() interface{}
}

// Map represents a Value that is a set of key-value pairs.
type Map interface {
	// Set changes or sets the given key to the given value.
	Set(key string, val Value)
	// Get returns the value for the given key, if present, or
	// (nil, false) if not present.
	Get(key string) (Value, bool)
	// Has returns true if the key is present.
	Has(key string) bool
	// Delete removes the key from the map.
	Delete(key string)
	// Iterate calls fn for every key-value pair in the map. Stops
	// early and returns false if fn returns false, otherwise
	// returns true.
	Iterate(fn func(key string, value Value) bool) bool
	// Length returns the number of items in the map.
	Length() int
	// Empty returns true if the map has no items.
	Empty() bool
	// Equals compares the two maps, and returns true if they are
	// the same, irrespective of key order.
	Equals(other Map) bool
	// Zip iterates over the keys present in both maps, calling fn
	// with each key and the corresponding values, which may be nil
	// on either side if the key is only present in one of the two
	// maps. Stops early if fn returns false.
	Zip(other Map, order MapTraverseOrder, fn func(key string, lhs, rhs Value) bool) bool
	// Recycle returns the map (and any nested values obtained from
	// it) to whatever allocator produced it. Only valid for maps
	// returned from an "Using" receiver function.
	Recycle()
}

// List represents a Value that is a list of (generally) unkeyed
// values.
type List interface {
	// Length returns how many items can be found in the list.
	Length() int
	// At returns the item at the given position in the list. It
	// will panic if the index is out of range.
	At(int) Value
	// Range returns a ListRange for iterating over the list.
	Range() ListRange
	// RangeUsing is like Range, but allows the caller to pass an
	// allocator that should be used to create the result, and
	// which must eventually be given back by passing the result to
	// Allocator.Free.
	RangeUsing(Allocator) ListRange
	// Equals returns true if the two lists are equal.
	Equals(other List) bool
	// Recycle returns the list to whatever allocator produced it.
	// Only valid for lists returned from an "Using" receiver
	// function.
	Recycle()
}

// ListRange represents a position in a list and allows iteration
// over a list.
type ListRange interface {
	// Next advances the index and returns true if an item is
	// present.
	Next() bool
	// Item returns the index and value at the current position.
	// Panics if Next has not been called, or if Next returned
	// false.
	Item() (index int, value Value)
	// Recycle returns the ListRange to whatever allocator produced
	// it.
	Recycle()
}

// MapTraverseOrder defines the order in which keys will be visited
// during a Map.Zip/Map.Iterate.
type MapTraverseOrder int

const (
	// Unordered indicates that order doesn't matter.
	Unordered = iota
	// LexicalKeyOrder indicates that entries should be traversed in
	// lexical key order.
	LexicalKeyOrder
)

// defaultMapZip provides the default implementation for Map.Zip, for
// implementations that don't have a more efficient way of doing it.
func defaultMapZip(lhs, rhs Map, order MapTraverseOrder, fn func(key string, lhs, rhs Value) bool) bool {
	switch order {
	case Unordered:
		return unorderedMapZip(lhs, rhs, fn)
	case LexicalKeyOrder:
		return lexicalKeyOrderMapZip(lhs, rhs, fn)
	default:
		panic(fmt.Errorf("unsupported order: %v", order))
	}
}

func unorderedMapZip(lhs, rhs Map, fn func(key string, lhs, rhs Value) bool) bool {
	if lhs == nil && rhs == nil {
		return true
	}

	var visited map[string]struct{}
	if lhs != nil {
		visited = make(map[string]struct{}, lhs.Length())
	}

	if lhs != nil {
		ok := lhs.Iterate(func(key string, lhsValue Value) bool {
			visited[key] = struct{}{}
			var rhsValue Value
			if rhs != nil {
				rhsValue, _ = rhs.Get(key)
			}
			return fn(key, lhsValue, rhsValue)
		})
		if !ok {
			return false
		}
	}
	if rhs != nil {
		return rhs.Iterate(func(key string, rhsValue Value) bool {
			if _, ok := visited[key]; ok {
				return true
			}
			return fn(key, nil, rhsValue)
		})
	}
	return true
}

func lexicalKeyOrderMapZip(lhs, rhs Map, fn func(key string, lhs, rhs Value) bool) bool {
	keys := map[string]struct{}{}
	if lhs != nil {
		lhs.Iterate(func(key string, _ Value) bool {
			keys[key] = struct{}{}
			return true
		})
	}
	if rhs != nil {
		rhs.Iterate(func(key string, _ Value) bool {
			keys[key] = struct{}{}
			return true
		})
	}
	sorted := make([]string, 0, len(keys))
	for key := range keys {
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)
	for _, key := range sorted {
		var lhsValue, rhsValue Value
		if lhs != nil {
			lhsValue, _ = lhs.Get(key)
		}
		if rhs != nil {
			rhsValue, _ = rhs.Get(key)
		}
		if !fn(key, lhsValue, rhsValue) {
			return false
		}
	}
	return true
}

// Equals returns true iff the two values are equal.
func Equals(lhs, rhs Value) bool {
	if lhs.IsFloat() || rhs.IsFloat() {
		if !lhs.IsFloat() || !rhs.IsFloat() {
			return false
		}
		return lhs.AsFloat() == rhs.AsFloat()
	}
	if lhs.IsInt() != rhs.IsInt() {
		return false
	}
	if lhs.IsInt() {
		return lhs.AsInt() == rhs.AsInt()
	}
	if lhs.IsString() != rhs.IsString() {
		return false
	}
	if lhs.IsString() {
		return lhs.AsString() == rhs.AsString()
	}
	if lhs.IsBool() != rhs.IsBool() {
		return false
	}
	if lhs.IsBool() {
		return lhs.AsBool() == rhs.AsBool()
	}
	if lhs.IsList() != rhs.IsList() {
		return false
	}
	if lhs.IsList() {
		lhsList := lhs.AsList()
		defer lhsList.Recycle()
		rhsList := rhs.AsList()
		defer rhsList.Recycle()
		return lhsList.Equals(rhsList)
	}
	if lhs.IsMap() != rhs.IsMap() {
		return false
	}
	if lhs.IsMap() {
		lhsMap := lhs.AsMap()
		defer lhsMap.Recycle()
		rhsMap := rhs.AsMap()
		defer rhsMap.Recycle()
		return lhsMap.Equals(rhsMap)
	}
	// Both null.
	return lhs.IsNull() && rhs.IsNull()
}

// ToString returns a human-readable representation of the value.
func ToString(v Value) string {
	if v == nil {
		return "null"
	}
	switch {
	case v.IsNull():
		return "null"
	case v.IsFloat():
		return fmt.Sprintf("%v", v.AsFloat())
	case v.IsInt():
		return fmt.Sprintf("%v", v.AsInt())
	case v.IsString():
		return fmt.Sprintf("%q", v.AsString())
	case v.IsBool():
		return fmt.Sprintf("%v", v.AsBool())
	default:
		return fmt.Sprintf("%#v", v.Unstructured())
	}
}

// IntCompare compares two int64s.
func IntCompare(lhs, rhs int64) int {
	switch {
	case lhs > rhs:
		return 1
	case lhs < rhs:
		return -1
	default:
		return 0
	}
}

// FloatCompare compares two float64s.
func FloatCompare(lhs, rhs float64) int {
	switch {
	case lhs > rhs:
		return 1
	case lhs < rhs:
		return -1
	default:
		return 0
	}
}

// BoolCompare compares two bools, ordering false before true.
func BoolCompare(lhs, rhs bool) int {
	if lhs == rhs {
		return 0
	}
	if !lhs {
		return -1
	}
	return 1
}

// Less compares lhs and rhs for sort ordering; it imposes an
// arbitrary, but stable, total order across scalar kinds so that
// heterogeneous lists of scalars can still be sorted deterministically.
func Less(lhs, rhs Value) bool {
	return Compare(lhs, rhs) < 0
}

func kindRank(v Value) int {
	switch {
	case v.IsNull():
		return 0
	case v.IsBool():
		return 1
	case v.IsInt():
		return 2
	case v.IsFloat():
		return 3
	case v.IsString():
		return 4
	default:
		return 5
	}
}

// Compare provides a total ordering over scalar values so that they
// can be sorted deterministically. Its behavior on non-scalar values
// (maps and lists) is undefined beyond being consistent for a given
// pair.
func Compare(lhs, rhs Value) int {
	lr, rr := kindRank(lhs), kindRank(rhs)
	if lr != rr {
		return IntCompare(int64(lr), int64(rr))
	}
	switch {
	case lhs.IsNull():
		return 0
	case lhs.IsBool():
		return BoolCompare(lhs.AsBool(), rhs.AsBool())
	case lhs.IsInt():
		return IntCompare(lhs.AsInt(), rhs.AsInt())
	case lhs.IsFloat():
		return FloatCompare(lhs.AsFloat(), rhs.AsFloat())
	case lhs.IsString():
		return sortCompareStrings(lhs.AsString(), rhs.AsString())
	default:
		return sortCompareStrings(ToString(lhs), ToString(rhs))
	}
}

func sortCompareStrings(lhs, rhs string) int {
	switch {
	case lhs > rhs:
		return 1
	case lhs < rhs:
		return -1
	default:
		return 0
	}
}
