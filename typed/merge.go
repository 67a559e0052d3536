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

// mergeRule examines w.lhs and w.rhs (up to one of which may be nil)
// and optionally sets w.out. If lhs and rhs are both set, they are of
// comparable type. A rule may also be used purely for its side
// effects, as Compare does, without ever inspecting w.out.
type mergeRule func(w *mergingWalker)

var ruleKeepRHS = mergeRule(func(w *mergingWalker) {
	if w.rhs != nil {
		v := *w.rhs
		w.out = &v
	} else if w.lhs != nil {
		v := *w.lhs
		w.out = &v
	}
})

type mergingWalker struct {
	lhs       *value.Value
	rhs       *value.Value
	path      fieldpath.Path
	schema    *schema.Schema
	typeRef   schema.TypeRef
	allocator value.Allocator

	rule mergeRule

	// out holds the result of the merge, if any.
	out *value.Value

	inLeaf bool // set once we're inside a "big leaf": an atomic map or list.
}

// merge builds a TypedValue out of merging rhs on top of lhs, using
// rule to decide, for every leaf field, which of the two values wins.
func merge(lhs, rhs *TypedValue, rule mergeRule) (*TypedValue, error) {
	if lhs == nil && rhs == nil {
		return nil, nil
	}
	w := &mergingWalker{
		schema:    lhs.schema,
		typeRef:   lhs.typeRef,
		allocator: value.NewFreelistAllocator(),
		rule:      rule,
	}
	if lhs != nil {
		w.lhs = &lhs.value
	}
	if rhs != nil {
		w.rhs = &rhs.value
		w.schema = rhs.schema
		w.typeRef = rhs.typeRef
	}

	if errs := w.merge(); len(errs) != 0 {
		return nil, errs
	}

	tv := &TypedValue{schema: w.schema, typeRef: w.typeRef}
	if w.out != nil {
		tv.value = *w.out
	} else {
		tv.value = value.NewValueInterface(nil)
	}
	return tv, nil
}

func (w *mergingWalker) merge() ValidationErrors {
	if w.lhs == nil && w.rhs == nil {
		return w.errorf("at least one of lhs and rhs must be provided")
	}
	return resolveSchema(w.schema, w.typeRef, nil, w)
}

func (w *mergingWalker) errorf(format string, args ...interface{}) ValidationErrors {
	return ValidationErrors{{
		Path:         append(fieldpath.Path{}, w.path...),
		ErrorMessage: fmt.Sprintf(format, args...),
	}}
}

// doLeaf should be called on leaves before descending into children,
// if there will be a descent. It toggles w.inLeaf.
func (w *mergingWalker) doLeaf() {
	if w.inLeaf {
		// We're in a "big leaf" (an atomic map or list). Ignore
		// subsequent leaves.
		return
	}
	w.inLeaf = true
	w.rule(w)
}

func (w *mergingWalker) doScalar(t *schema.Scalar) (errs ValidationErrors) {
	if w.lhs != nil {
		if lerrs := validateScalar(t, *w.lhs, w.path.String()); len(lerrs) != 0 {
			errs = append(errs, lerrs...)
		}
	}
	if w.rhs != nil {
		if rerrs := validateScalar(t, *w.rhs, w.path.String()); len(rerrs) != 0 {
			errs = append(errs, rerrs...)
		}
	}
	if len(errs) > 0 {
		return errs
	}

	// All scalars are leaf fields.
	w.doLeaf()
	return nil
}

func (w *mergingWalker) doUntyped(t *schema.Untyped) ValidationErrors {
	if t.ElementRelationship == "" || t.ElementRelationship == schema.Atomic {
		w.doLeaf()
	}
	return nil
}

func (w *mergingWalker) prepareDescent(pe fieldpath.PathElement, tr schema.TypeRef) *mergingWalker {
	w2 := *w
	w2.typeRef = tr
	w2.path = append(append(fieldpath.Path{}, w.path...), pe)
	w2.lhs = nil
	w2.rhs = nil
	w2.out = nil
	return &w2
}

func (w *mergingWalker) doList(t *schema.List) (errs ValidationErrors) {
	var lhs, rhs value.List
	if w.lhs != nil {
		l, err := listValue(w.allocator, *w.lhs)
		if err != nil {
			errs = append(errs, w.errorf("lhs: %v", err)...)
		}
		lhs = l
	}
	if w.rhs != nil {
		l, err := listValue(w.allocator, *w.rhs)
		if err != nil {
			errs = append(errs, w.errorf("rhs: %v", err)...)
		}
		rhs = l
	}
	if len(errs) > 0 {
		return errs
	}

	emptyPromoteToLeaf := (lhs == nil || lhs.Length() == 0) && (rhs == nil || rhs.Length() == 0)
	if t.ElementRelationship == schema.Atomic || emptyPromoteToLeaf {
		w.doLeaf()
		return nil
	}
	if lhs == nil && rhs == nil {
		return nil
	}

	return w.visitListItems(t, lhs, rhs)
}

func (w *mergingWalker) visitListItems(t *schema.List, lhs, rhs value.List) (errs ValidationErrors) {
	var order []string
	observedRHS := map[string]value.Value{}
	if rhs != nil {
		for i := 0; i < rhs.Length(); i++ {
			child := rhs.At(i)
			pe, err := listItemToPathElement(w.allocator, t, i, child)
			if err != nil {
				errs = append(errs, w.errorf("rhs: element %v: %v", i, err.Error())...)
				continue
			}
			key := pe.String()
			if _, found := observedRHS[key]; found {
				errs = append(errs, w.errorf("rhs: duplicate entries for key %v", key)...)
			}
			observedRHS[key] = child
			order = append(order, key)
		}
	}

	var out []interface{}
	observedLHS := map[string]struct{}{}
	if lhs != nil {
		for i := 0; i < lhs.Length(); i++ {
			child := lhs.At(i)
			pe, err := listItemToPathElement(w.allocator, t, i, child)
			if err != nil {
				errs = append(errs, w.errorf("lhs: element %v: %v", i, err.Error())...)
				continue
			}
			key := pe.String()
			if _, found := observedLHS[key]; found {
				errs = append(errs, w.errorf("lhs: duplicate entries for key %v", key)...)
				continue
			}
			observedLHS[key] = struct{}{}
			rchild, ok := observedRHS[key]
			if !ok {
				out = append(out, child.Unstructured())
				continue
			}
			w2 := w.prepareDescent(pe, t.ElementType)
			w2.lhs = &child
			w2.rhs = &rchild
			if newErrs := w2.merge(); len(newErrs) > 0 {
				errs = append(errs, newErrs...)
			} else if w2.out != nil {
				out = append(out, (*w2.out).Unstructured())
			}
			delete(observedRHS, key)
		}
	}

	for _, key := range order {
		if unmerged, ok := observedRHS[key]; ok {
			out = append(out, unmerged.Unstructured())
		}
	}

	if len(out) > 0 {
		v := value.NewValueInterface(out)
		w.out = &v
	}
	return errs
}

func (w *mergingWalker) doMap(t *schema.Map) (errs ValidationErrors) {
	var lhs, rhs value.Map
	if w.lhs != nil {
		m, err := mapValue(w.allocator, *w.lhs)
		if err != nil {
			errs = append(errs, w.errorf("lhs: %v", err)...)
		}
		lhs = m
	}
	if w.rhs != nil {
		m, err := mapValue(w.allocator, *w.rhs)
		if err != nil {
			errs = append(errs, w.errorf("rhs: %v", err)...)
		}
		rhs = m
	}
	if len(errs) > 0 {
		return errs
	}

	emptyPromoteToLeaf := (lhs == nil || lhs.Empty()) && (rhs == nil || rhs.Empty())
	if t.ElementRelationship == schema.Atomic || emptyPromoteToLeaf {
		w.doLeaf()
		return nil
	}
	if lhs == nil && rhs == nil {
		return nil
	}

	return w.visitMapItems(t, lhs, rhs)
}

func (w *mergingWalker) visitMapItems(t *schema.Map, lhs, rhs value.Map) (errs ValidationErrors) {
	fieldTypes := map[string]schema.TypeRef{}
	for _, sf := range t.Fields {
		fieldTypes[sf.Name] = sf.Type
	}
	fieldType := func(name string) schema.TypeRef {
		if ft, ok := fieldTypes[name]; ok {
			return ft
		}
		return t.ElementType
	}

	out := map[string]interface{}{}

	if lhs != nil {
		lhs.Iterate(func(name string, lval value.Value) bool {
			var rval value.Value
			var ok bool
			if rhs != nil {
				rval, ok = rhs.Get(name)
			}
			if !ok {
				out[name] = lval.Unstructured()
				return true
			}
			w2 := w.prepareDescent(fieldpath.PathElement{FieldName: &name}, fieldType(name))
			w2.lhs = &lval
			w2.rhs = &rval
			if newErrs := w2.merge(); len(newErrs) > 0 {
				errs = append(errs, newErrs...)
			} else if w2.out != nil {
				out[name] = (*w2.out).Unstructured()
			}
			return true
		})
	}
	if rhs != nil {
		rhs.Iterate(func(name string, rval value.Value) bool {
			if lhs != nil {
				if _, ok := lhs.Get(name); ok {
					return true
				}
			}
			out[name] = rval.Unstructured()
			return true
		})
	}

	if len(out) > 0 {
		v := value.NewValueInterface(out)
		w.out = &v
	}
	return errs
}
