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

// APIVersion describes the version of an object, e.g. "v1" or
// "apps/v1". It has no meaning to this package and is treated as an
// opaque label for the purpose of tracking which schema a VersionedSet
// was computed against.
type APIVersion string

// VersionedSet associates a Set with the API version it was computed
// under, and records whether it came from an apply operation (as
// opposed to a regular update).
type VersionedSet struct {
	*Set
	APIVersion APIVersion
	Applied    bool
}

// NewVersionedSet creates a VersionedSet for the given set, api version
// and applied bit.
func NewVersionedSet(set *Set, apiVersion APIVersion, applied bool) *VersionedSet {
	return &VersionedSet{
		Set:        set,
		APIVersion: apiVersion,
		Applied:    applied,
	}
}

// ManagedFields is a map from manager name to the set of fields that
// manager owns.
type ManagedFields map[string]*VersionedSet

// Copy returns a copy of ManagedFields; VersionedSet entries are shared,
// not deep-copied, since they are treated as immutable once recorded.
func (lhs ManagedFields) Copy() ManagedFields {
	out := make(ManagedFields, len(lhs))
	for k, v := range lhs {
		out[k] = v
	}
	return out
}

// Difference returns the entries that differ between lhs and rhs: a
// manager present in only one side keeps that side's value; a manager
// present on both sides but under a different APIVersion or applied
// bit takes rhs's value; a manager present on both sides under the
// same APIVersion and applied bit, but owning a different set, maps to
// the symmetric difference of the two sets.
func (lhs ManagedFields) Difference(rhs ManagedFields) ManagedFields {
	out := ManagedFields{}
	for manager, lhsSet := range lhs {
		rhsSet, ok := rhs[manager]
		if !ok {
			out[manager] = lhsSet
			continue
		}
		if lhsSet.APIVersion != rhsSet.APIVersion || lhsSet.Applied != rhsSet.Applied {
			out[manager] = rhsSet
			continue
		}
		if !lhsSet.Set.Equals(rhsSet.Set) {
			diff := lhsSet.Set.Union(rhsSet.Set).Difference(lhsSet.Set.Intersection(rhsSet.Set))
			out[manager] = NewVersionedSet(diff, lhsSet.APIVersion, lhsSet.Applied)
		}
	}
	for manager, rhsSet := range rhs {
		if _, ok := lhs[manager]; !ok {
			out[manager] = rhsSet
		}
	}
	return out
}

// Equals returns true if lhs and rhs track exactly the same managers,
// each owning the same set under the same API version and applied bit.
func (lhs ManagedFields) Equals(rhs ManagedFields) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	return len(lhs.Difference(rhs)) == 0
}
