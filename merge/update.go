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

package merge

import (
	"fmt"

	"github.com/fieldkit/structfield/fieldpath"
	"github.com/fieldkit/structfield/typed"
)

// Converter is an interface to the conversion logic. The converter
// needs to be able to convert objects from one version to another.
type Converter interface {
	Convert(object *typed.TypedValue, version fieldpath.APIVersion) (*typed.TypedValue, error)
	// IsMissingVersionError should return true if the given error is
	// because the requested version is not recognized.
	IsMissingVersionError(error) bool
}

// Defaulter sets default values on a typed value, the way a schema's
// default stanza or an admission controller would.
type Defaulter interface {
	Default(*typed.TypedValue) (*typed.TypedValue, error)
}

// Updater is the object used to compute updated ManagedFields and also
// merge the object on Apply.
type Updater struct {
	Converter Converter
	Defaulter Defaulter
}

func (s *Updater) defaultObject(obj *typed.TypedValue) (*typed.TypedValue, error) {
	if s.Defaulter == nil {
		return obj, nil
	}
	return s.Defaulter.Default(obj)
}

// update recomputes ownership after liveObject has been replaced by
// newObject by workflow, and returns the resulting ManagedFields, or a
// non-nil Conflicts error if force is false and some other manager's
// fields were touched.
func (s *Updater) update(liveObject, newObject *typed.TypedValue, managers fieldpath.ManagedFields, workflow string, force bool, ignored *fieldpath.Set) (fieldpath.ManagedFields, error) {
	if managers == nil {
		managers = fieldpath.ManagedFields{}
	}
	managers = managers.Copy()

	conflicts := fieldpath.ManagedFields{}
	type versioned struct {
		liveObject *typed.TypedValue
		newObject  *typed.TypedValue
	}
	byVersion := map[fieldpath.APIVersion]versioned{}

	for manager, managerSet := range managers {
		if manager == workflow {
			continue
		}
		v, ok := byVersion[managerSet.APIVersion]
		if !ok {
			var err error
			v.liveObject, err = s.Converter.Convert(liveObject, managerSet.APIVersion)
			if err != nil {
				if s.Converter.IsMissingVersionError(err) {
					continue
				}
				return nil, fmt.Errorf("failed to convert old object: %v", err)
			}
			v.newObject, err = s.Converter.Convert(newObject, managerSet.APIVersion)
			if err != nil {
				if s.Converter.IsMissingVersionError(err) {
					continue
				}
				return nil, fmt.Errorf("failed to convert new object: %v", err)
			}
			byVersion[managerSet.APIVersion] = v
		}
		compare, err := v.liveObject.Compare(v.newObject)
		if err != nil {
			return nil, fmt.Errorf("failed to compare objects: %v", err)
		}

		touched := compare.Modified.Union(compare.Added)
		if ignored != nil {
			touched = touched.Difference(ignored)
		}
		conflictSet := managerSet.Intersection(touched)
		if !conflictSet.Empty() {
			conflicts[manager] = fieldpath.NewVersionedSet(conflictSet, managerSet.APIVersion, managerSet.Applied)
		}
	}

	if !force && len(conflicts) != 0 {
		sets := map[string]*fieldpath.Set{}
		for manager, c := range conflicts {
			sets[manager] = c.Set
		}
		return nil, NewFromSets(sets)
	}

	for manager, conflictSet := range conflicts {
		remaining := managers[manager].Set.Difference(conflictSet.Set)
		managers[manager] = fieldpath.NewVersionedSet(remaining, managers[manager].APIVersion, managers[manager].Applied)
	}

	return managers, nil
}

// Update is the method you should call once you've merged your final
// object on CREATE/UPDATE/PATCH verbs. newObject must be the object
// that you intend to persist (after applying the patch if this is for a
// PATCH call), and liveObject must be the original object (empty if
// this is a CREATE call).
func (s *Updater) Update(liveObject, newObject *typed.TypedValue, version fieldpath.APIVersion, managers fieldpath.ManagedFields, manager string, ignored *fieldpath.Set) (fieldpath.ManagedFields, error) {
	managers, err := s.update(liveObject, newObject, managers, manager, true, ignored)
	if err != nil {
		return fieldpath.ManagedFields{}, fmt.Errorf("failed to update managers: %v", err)
	}
	compare, err := liveObject.Compare(newObject)
	if err != nil {
		return fieldpath.ManagedFields{}, fmt.Errorf("failed to compare live and new objects: %v", err)
	}

	ownedSet := fieldpath.NewSet()
	if existing, ok := managers[manager]; ok {
		ownedSet = existing.Set
	}
	ownedSet = ownedSet.Union(compare.Modified).Union(compare.Added).Difference(compare.Removed)
	if ignored != nil {
		ownedSet = ownedSet.Difference(ignored)
	}
	if ownedSet.Empty() {
		delete(managers, manager)
	} else {
		managers[manager] = fieldpath.NewVersionedSet(ownedSet, version, false)
	}
	return managers, nil
}

// Apply should be called when Apply is run, given the current object as
// well as the configuration that is applied. This will merge the object
// and return it.
func (s *Updater) Apply(liveObject, configObject *typed.TypedValue, version fieldpath.APIVersion, managers fieldpath.ManagedFields, manager string, force bool) (*typed.TypedValue, fieldpath.ManagedFields, error) {
	configObject, err := s.defaultObject(configObject)
	if err != nil {
		return nil, fieldpath.ManagedFields{}, fmt.Errorf("failed to default config object: %v", err)
	}

	newObject, err := liveObject.Merge(configObject)
	if err != nil {
		return nil, fieldpath.ManagedFields{}, fmt.Errorf("failed to merge config: %v", err)
	}

	managers, err = s.update(liveObject, newObject, managers, manager, force, nil)
	if err != nil {
		return nil, fieldpath.ManagedFields{}, err
	}

	set, err := configObject.ToFieldSet()
	if err != nil {
		return nil, fieldpath.ManagedFields{}, fmt.Errorf("failed to get field set: %v", err)
	}
	managers[manager] = fieldpath.NewVersionedSet(set, version, true)

	return newObject, managers, nil
}
