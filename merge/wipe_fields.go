/*
Copyright 2020 The Fieldkit Authors.

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

package merge

import (
	"fmt"

	"github.com/fieldkit/structfield/fieldpath"
	"github.com/fieldkit/structfield/typed"
)

// WipeManagedFields reconciles a manager's claimed ownership after a
// prepare-for-update step (defaulting, status reset, a mutating
// admission plugin) has changed newObject into preparedObject. Any
// field whose ownership changed during the update, but whose value in
// preparedObject matches liveObject, is treated as if the update never
// touched it, and manager loses the ownership it would otherwise have
// gained. Ownership is never granted back beyond what newManagedFields
// already records.
func WipeManagedFields(liveManagedFields, newManagedFields fieldpath.ManagedFields, manager string, liveObject, preparedObject *typed.TypedValue) (fieldpath.ManagedFields, error) {
	compare, err := liveObject.Compare(preparedObject)
	if err != nil {
		return nil, fmt.Errorf("failed to compare live and prepared objects: %v", err)
	}
	resetByPrepare := compare.Modified.Union(compare.Added).Union(compare.Removed)

	liveOwned := fieldpath.NewSet()
	if vs, ok := liveManagedFields[manager]; ok {
		liveOwned = vs.Set
	}
	newOwned := fieldpath.NewSet()
	newVersionedSet, hadNewEntry := newManagedFields[manager]
	if hadNewEntry {
		newOwned = newVersionedSet.Set
	}

	// Paths whose ownership changed between live and new: these are
	// candidates for having been claimed (or released) by this update.
	changed := liveOwned.Union(newOwned).Difference(liveOwned.Intersection(newOwned))
	// Of those, the ones prepare reset back to the live value don't
	// count as real changes.
	reverted := changed.Difference(resetByPrepare)
	wiped := newOwned.Difference(reverted)

	out := newManagedFields.Copy()
	if !hadNewEntry {
		return out, nil
	}
	if wiped.Empty() {
		delete(out, manager)
	} else {
		out[manager] = fieldpath.NewVersionedSet(wiped, newVersionedSet.APIVersion, newVersionedSet.Applied)
	}
	return out, nil
}
