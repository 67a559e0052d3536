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
	"strings"

	"github.com/fieldkit/structfield/schema"
	"github.com/fieldkit/structfield/value"
)

// completeKeysValue walks original (guided by defaulted, if given)
// according to the schema rooted at tr, filling in the keys of any
// associative list items it finds along the way. Both values are left
// untouched; a new value is built and returned.
func completeKeysValue(s *schema.Schema, tr schema.TypeRef, original, defaulted value.Value) (value.Value, error) {
	if original == nil || original.IsNull() {
		return original, nil
	}
	atom, ok := s.Resolve(tr)
	if !ok {
		name := "inlined type"
		if tr.NamedType != nil {
			name = *tr.NamedType
		}
		return nil, fmt.Errorf("schema error: no type found matching: %v", name)
	}

	switch {
	case atom.Map != nil:
		return completeKeysInMap(s, atom.Map, original, defaulted)
	case atom.List != nil:
		return completeKeysInList(s, atom.List, original, defaulted)
	default:
		return original, nil
	}
}

func completeKeysInMap(s *schema.Schema, t *schema.Map, original, defaulted value.Value) (value.Value, error) {
	if !original.IsMap() {
		return original, nil
	}
	om := original.AsMap()
	defer om.Recycle()

	var dm value.Map
	if defaulted != nil && defaulted.IsMap() {
		dm = defaulted.AsMap()
		defer dm.Recycle()
	}

	out := map[string]interface{}{}
	var walkErr error
	om.Iterate(func(key string, child value.Value) bool {
		childRef := t.ElementType
		if sf, found := t.FindField(key); found {
			childRef = sf.Type
		}
		var dchild value.Value
		if dm != nil {
			dchild, _ = dm.Get(key)
		}
		completed, err := completeKeysValue(s, childRef, child, dchild)
		if err != nil {
			walkErr = err
			return false
		}
		out[key] = completed.Unstructured()
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return value.NewValueInterface(out), nil
}

// shallowCopyMap returns a map holding the same key/value pairs as m,
// backed by storage independent of m, so it can be mutated via Set
// without affecting whatever value m was obtained from.
func shallowCopyMap(m value.Map) value.Map {
	raw := map[string]interface{}{}
	m.Iterate(func(key string, val value.Value) bool {
		raw[key] = val.Unstructured()
		return true
	})
	return value.NewValueInterface(raw).AsMap()
}

func completeKeysInList(s *schema.Schema, t *schema.List, original, defaulted value.Value) (value.Value, error) {
	if !original.IsList() {
		return original, nil
	}
	ol := original.AsList()
	defer ol.Recycle()

	out := make([]interface{}, ol.Length())
	for i := 0; i < ol.Length(); i++ {
		out[i] = ol.At(i).Unstructured()
	}

	if t.ElementRelationship != schema.Associative || len(t.Keys) == 0 {
		return value.NewValueInterface(out), nil
	}

	items := make([]*listItem, 0, ol.Length())
	for i := 0; i < ol.Length(); i++ {
		child := ol.At(i)
		if !child.IsMap() {
			continue
		}
		items = append(items, &listItem{m: shallowCopyMap(child.AsMap())})
	}

	var defaultedItems []*listItem
	if defaulted != nil && defaulted.IsList() {
		dl := defaulted.AsList()
		defer dl.Recycle()
		for i := 0; i < dl.Length(); i++ {
			child := dl.At(i)
			if child.IsMap() {
				defaultedItems = append(defaultedItems, &listItem{m: child.AsMap()})
			}
		}
	}

	if err := matchBySpecifiedKeys(items, defaultedItems, t.Keys); err != nil {
		return nil, err
	}

	idx := 0
	for i := 0; i < ol.Length(); i++ {
		if !ol.At(i).IsMap() {
			continue
		}
		itemOut := map[string]interface{}{}
		items[idx].m.Iterate(func(key string, val value.Value) bool {
			itemOut[key] = val.Unstructured()
			return true
		})
		out[i] = itemOut
		idx++
	}
	return value.NewValueInterface(out), nil
}

// listItem wraps a single map-typed list element so it has pointer
// identity: value.Map's concrete implementations wrap plain Go maps
// and slices, which aren't comparable, so they can't be used directly
// as keys in the itemSet below.
type listItem struct {
	m value.Map
}

func (i *listItem) Get(key string) (value.Value, bool) { return i.m.Get(key) }
func (i *listItem) Set(key string, val value.Value)    { i.m.Set(key, val) }

func printItem(item *listItem) string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	item.m.Iterate(func(key string, val value.Value) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v: %v", key, value.ToString(val))
		return true
	})
	b.WriteByte('}')
	return b.String()
}

type itemSet map[*listItem]struct{}

func (items itemSet) String() string {
	s := []string{}
	for item := range items {
		s = append(s, printItem(item))
	}
	return strings.Join(s, "\n")
}

// matchBySpecifiedKeys uses key values from fully specified defaulted to fill in all
// unspecified keys in original if possible.
func matchBySpecifiedKeys(original, defaulted []*listItem, keys []string) error {
	trie := newKeyTrie(keys)
	trie.addAllPartial(original)
	trie.addAllDefaulted(defaulted)
	for trie.hasMatchablePair() {
		partial, match := trie.nextMatchablePair()
		fillUnspecifiedKeys(partial, match, keys)
	}
	return nil
}

// fillUnspecifiedKeys uses key values from fully specified rhs to fill in
// unspecified keys in lhs.
func fillUnspecifiedKeys(lhs, rhs *listItem, keys []string) {
	for _, key := range keys {
		if _, ok := lhs.Get(key); !ok {
			if valRHS, ok := rhs.Get(key); ok {
				lhs.Set(key, valRHS)
			}
		}
	}
}

// keyTrie is used to quickly look up the pairs of matching items
type keyTrie struct {
	defaulted itemSet
	partial   *listItem

	keys []string
	val  map[string]*keyTrie
	skip *keyTrie
	ones itemSet
}

func newKeyTrie(keys []string) *keyTrie {
	return &keyTrie{
		keys: keys,
		val:  map[string]*keyTrie{},
		ones: itemSet{},
	}
}

func (k *keyTrie) hasMatchablePair() bool {
	return len(k.ones) != 0
}

func (k *keyTrie) nextMatchablePair() (*listItem, *listItem) {
	for one := range k.ones {
		for match := range k.get(one) {
			k.removeDefaulted(match)
			return one, match
		}
	}
	panic("user error, called getMatchablePair without calling hasMatchablePairs first")
}

func (k *keyTrie) newSubTrie() *keyTrie {
	keys := k.keys[1:]
	if len(keys) == 0 {
		return &keyTrie{defaulted: itemSet{}, ones: k.ones}
	}
	return &keyTrie{
		keys: keys,
		val:  map[string]*keyTrie{},
		ones: k.ones,
	}
}

func (k *keyTrie) addAllDefaulted(items []*listItem) {
	for _, item := range items {
		k.addDefaulted(item)
	}
}

func (k *keyTrie) addDefaulted(item *listItem) {
	if len(k.keys) == 0 {
		k.defaulted[item] = struct{}{}
		if len(k.defaulted) == 1 {
			k.ones[k.partial] = struct{}{}
		} else if _, ok := k.ones[k.partial]; ok {
			delete(k.ones, k.partial)
		}
		return
	}
	if v, ok := item.Get(k.keys[0]); ok {
		val := value.ToString(v)
		if _, ok := k.val[val]; ok {
			k.val[val].addDefaulted(item)
		}
		if k.skip != nil {
			k.skip.addDefaulted(item)
		}
	}
}

func (k *keyTrie) removeDefaulted(item *listItem) {
	if len(k.keys) == 0 {
		delete(k.defaulted, item)
		if len(k.defaulted) == 1 {
			k.ones[k.partial] = struct{}{}
		} else if _, ok := k.ones[k.partial]; ok {
			delete(k.ones, k.partial)
		}
		return
	}
	if v, ok := item.Get(k.keys[0]); ok {
		val := value.ToString(v)
		if _, ok := k.val[val]; ok {
			k.val[val].removeDefaulted(item)
		}
		if k.skip != nil {
			k.skip.removeDefaulted(item)
		}
	}
}

func (k *keyTrie) addAllPartial(items []*listItem) {
	for _, item := range items {
		k.addPartial(item)
	}
}

func (k *keyTrie) addPartial(item *listItem) error {
	if k.partial != nil {
		return fmt.Errorf("indistinguishable partial items: %v and %v", printItem(k.partial), printItem(item))
	}
	if len(k.keys) == 0 {
		k.partial = item
		return nil
	}

	if v, ok := item.Get(k.keys[0]); ok {
		val := value.ToString(v)
		if _, ok := k.val[val]; !ok {
			k.val[val] = k.newSubTrie()
		}
		return k.val[val].addPartial(item)
	}

	if k.skip == nil {
		k.skip = k.newSubTrie()
	}
	return k.skip.addPartial(item)
}

func (k *keyTrie) get(item *listItem) itemSet {
	if len(k.keys) == 0 {
		return k.defaulted
	}
	if v, ok := item.Get(k.keys[0]); ok {
		val := value.ToString(v)
		if _, ok := k.val[val]; !ok {
			return itemSet{}
		}
		return k.val[val].get(item)
	}
	return k.skip.get(item)
}
