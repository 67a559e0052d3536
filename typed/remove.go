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

package typed

import (
	"fmt"

	"github.com/fieldkit/structfield/fieldpath"
	"github.com/fieldkit/structfield/schema"
	"github.com/fieldkit/structfield/value"
)

type removingWalker struct {
	value     value.Value
	out       interface{}
	schema    *schema.Schema
	typeRef   schema.TypeRef
	toRemove  *fieldpath.Set
	allocator value.Allocator
	onlyItems bool
}

func removeWithSchema(val value.Value, toRemove *fieldpath.Set, schema *schema.Schema, typeRef schema.TypeRef, onlyItems bool) value.Value {
	w := &removingWalker{
		value:     val,
		schema:    schema,
		typeRef:   typeRef,
		toRemove:  toRemove,
		allocator: value.NewFreelistAllocator(),
		onlyItems: onlyItems,
	}
	resolveSchema(schema, typeRef, val, w)
	return value.NewValueInterface(w.out)
}

func (w *removingWalker) doScalar(t *schema.Scalar) ValidationErrors {
	w.out = w.value.Unstructured()
	return nil
}

// doUntyped handles fields for which no schema is known. When the
// relationship is Separable (as for deduced/CRD data with no schema),
// we still descend into maps and lists by key/index so that nested
// paths can be removed; otherwise the value is treated as a single
// opaque leaf.
func (w *removingWalker) doUntyped(t *schema.Untyped) ValidationErrors {
	if t.ElementRelationship != schema.Separable {
		w.out = w.value.Unstructured()
		return nil
	}
	switch {
	case w.value.IsMap():
		m := w.value.AsMapUsing(w.allocator)
		defer w.allocator.Free(m)
		newMap := map[string]interface{}{}
		m.Iterate(func(k string, val value.Value) bool {
			pe := fieldpath.PathElement{FieldName: &k}
			path, _ := fieldpath.MakePath(pe)
			if w.toRemove.Has(path) {
				return true
			}
			if subset := w.toRemove.WithPrefix(pe); !subset.Empty() {
				val = removeWithSchema(val, subset, w.schema, w.typeRef, w.onlyItems)
			}
			newMap[k] = val.Unstructured()
			return true
		})
		w.out = newMap
	case w.value.IsList():
		l := w.value.AsListUsing(w.allocator)
		defer w.allocator.Free(l)
		var newItems []interface{}
		for i := 0; i < l.Length(); i++ {
			item := l.At(i)
			idx := i
			pe := fieldpath.PathElement{Index: &idx}
			path, _ := fieldpath.MakePath(pe)
			if w.toRemove.Has(path) {
				continue
			}
			if subset := w.toRemove.WithPrefix(pe); !subset.Empty() {
				item = removeWithSchema(item, subset, w.schema, w.typeRef, w.onlyItems)
			}
			newItems = append(newItems, item.Unstructured())
		}
		w.out = newItems
	default:
		w.out = w.value.Unstructured()
	}
	return nil
}

func (w *removingWalker) errorf(format string, args ...interface{}) ValidationErrors {
	return ValidationErrors{{ErrorMessage: fmt.Sprintf(format, args...)}}
}

func (w *removingWalker) doList(t *schema.List) (errs ValidationErrors) {
	l := w.value.AsListUsing(w.allocator)
	defer w.allocator.Free(l)

	// If list is null or empty just return
	if l == nil || l.Length() == 0 {
		w.out = w.value.Unstructured()
		return nil
	}

	var newItems []interface{}
	iter := l.RangeUsing(w.allocator)
	defer w.allocator.Free(iter)
	for iter.Next() {
		i, item := iter.Item()
		// Ignore error because we have already validated this list
		pe, _ := listItemToPathElement(w.allocator, t, i, item)
		path, _ := fieldpath.MakePath(pe)
		if w.toRemove.Has(path) {
			continue
		}
		if subset := w.toRemove.WithPrefix(pe); !subset.Empty() {
			item = removeWithSchema(item, subset, w.schema, t.ElementType, w.onlyItems)
		}
		newItems = append(newItems, item.Unstructured())
	}
	w.out = newItems
	return nil
}

func (w *removingWalker) doMap(t *schema.Map) ValidationErrors {
	m := w.value.AsMapUsing(w.allocator)
	if m != nil {
		defer w.allocator.Free(m)
	}
	// If map is null or empty just return
	if m == nil || m.Empty() {
		w.out = w.value.Unstructured()
		return nil
	}

	fieldTypes := map[string]schema.TypeRef{}
	for _, structField := range t.Fields {
		fieldTypes[structField.Name] = structField.Type
	}

	newMap := map[string]interface{}{}
	m.Iterate(func(k string, val value.Value) bool {
		pe := fieldpath.PathElement{FieldName: &k}
		path, _ := fieldpath.MakePath(pe)

		if !w.onlyItems && w.toRemove.Has(path) {
			return true
		}

		fieldType := t.ElementType
		if ft, ok := fieldTypes[k]; ok {
			fieldType = ft
		} else {
			if w.toRemove.Has(path) {
				return true
			}
		}
		if subset := w.toRemove.WithPrefix(pe); !subset.Empty() {
			val = removeWithSchema(val, subset, w.schema, fieldType, w.onlyItems)
		}
		newMap[k] = val.Unstructured()
		return true
	})
	w.out = newMap
	return nil
}
