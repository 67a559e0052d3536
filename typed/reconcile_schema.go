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

package typed

import (
	"fmt"

	"github.com/fieldkit/structfield/fieldpath"
	"github.com/fieldkit/structfield/schema"
	"github.com/fieldkit/structfield/value"
)

// ReconcileFieldSetWithSchema rewrites oldFields -- an owned set
// recorded against some earlier version of liveObject's schema -- so
// it respects the element relationships liveObject's current schema
// declares. Where a subtree has become atomic since oldFields was
// recorded, its leaves collapse into a single marker at the subtree's
// root. Where a subtree that used to be atomic has become granular,
// the single marker expands into every leaf currently present in
// liveObject below that root. Returns (nil, nil) if no rewrite was
// necessary, so the caller can keep using oldFields unchanged.
func ReconcileFieldSetWithSchema(oldFields *fieldpath.Set, liveObject *TypedValue) (*fieldpath.Set, error) {
	r := &schemaReconciler{
		schema: liveObject.schema,
		old:    oldFields,
		fixed:  fieldpath.NewSet(),
	}
	if err := r.walk(fieldpath.Path{}, liveObject.typeRef, liveObject.value, false); err != nil {
		return nil, err
	}
	if !r.changed {
		return nil, nil
	}
	return r.fixed, nil
}

type schemaReconciler struct {
	schema  *schema.Schema
	old     *fieldpath.Set
	fixed   *fieldpath.Set
	changed bool
}

// descendSet follows path through s one element at a time, returning
// the subset of s rooted at path (everything s records below path,
// never including path itself). Missing elements along the way yield
// an empty set.
func descendSet(s *fieldpath.Set, path fieldpath.Path) *fieldpath.Set {
	cur := s
	for _, pe := range path {
		cur = cur.WithPrefix(pe)
	}
	return cur
}

// walk reconciles the subtree rooted at path. force is true once an
// ancestor turned out to have been collapsed into a single atomic
// entry by the old schema but is granular under the current one --
// everything below such an ancestor is, by construction, newly owned
// in full, regardless of what oldFields happens to record there.
func (r *schemaReconciler) walk(path fieldpath.Path, tr schema.TypeRef, v value.Value, force bool) error {
	atomic, errs := isAtomic(v, r.schema, tr)
	if errs != nil {
		return errs
	}

	selfOld := force || (len(path) > 0 && r.old.Has(path))
	belowOld := force || !descendSet(r.old, path).Empty()

	if atomic {
		switch {
		case belowOld:
			r.changed = true
			if len(path) > 0 {
				r.fixed.Insert(path)
			}
		case selfOld:
			if len(path) > 0 {
				r.fixed.Insert(path)
			}
		}
		return nil
	}

	if selfOld {
		if !force {
			r.changed = true
		}
		if len(path) > 0 {
			r.fixed.Insert(path)
		}
		return r.walkChildren(path, tr, v, true)
	}
	return r.walkChildren(path, tr, v, false)
}

func (r *schemaReconciler) walkChildren(path fieldpath.Path, tr schema.TypeRef, v value.Value, force bool) error {
	atom, ok := r.schema.Resolve(tr)
	if !ok {
		name := "inlined type"
		if tr.NamedType != nil {
			name = *tr.NamedType
		}
		return fmt.Errorf("schema error: no type found matching: %v", name)
	}

	switch {
	case atom.Map != nil:
		return r.walkMapChildren(path, atom.Map, v, force)
	case atom.List != nil:
		return r.walkListChildren(path, atom.List, v, force)
	default:
		// Scalars never reach here, since isAtomic reports them atomic.
		// Untyped nodes whose relationship is not atomic do reach here;
		// their children are not walked.
		return nil
	}
}

func (r *schemaReconciler) walkMapChildren(path fieldpath.Path, t *schema.Map, v value.Value, force bool) error {
	if v == nil || !v.IsMap() {
		return nil
	}
	m := v.AsMap()
	defer m.Recycle()

	var walkErr error
	m.Iterate(func(key string, child value.Value) bool {
		childType, ok := t.FindField(key)
		childRef := childType.Type
		if !ok {
			if t.ElementType.NamedType == nil && t.ElementType.Inlined == (schema.Atom{}) {
				return true
			}
			childRef = t.ElementType
		}
		k := key
		childPath := append(append(fieldpath.Path{}, path...), fieldpath.PathElement{FieldName: &k})
		walkErr = r.walk(childPath, childRef, child, force)
		return walkErr == nil
	})
	return walkErr
}

func (r *schemaReconciler) walkListChildren(path fieldpath.Path, t *schema.List, v value.Value, force bool) error {
	if v == nil || !v.IsList() {
		return nil
	}
	l := v.AsList()
	defer l.Recycle()

	a := value.NewFreelistAllocator()
	for i := 0; i < l.Length(); i++ {
		child := l.At(i)
		pe, err := listItemToPathElement(a, t, i, child)
		if err != nil {
			return fmt.Errorf("element %v: %v", i, err)
		}
		childPath := append(append(fieldpath.Path{}, path...), pe)
		if err := r.walk(childPath, t.ElementType, child, force); err != nil {
			return err
		}
	}
	return nil
}
