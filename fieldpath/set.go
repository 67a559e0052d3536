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

import (
	"sort"
	"strings"
)

// Set identifies a set of fields.
type Set struct {
	// Members lists fields that are part of the set.
	Members PathElementSet

	// Children lists child fields which themselves have children that are
	// members of the set. Appearance in this list does not imply membership.
	// Note: this is a tree, not an arbitrary graph.
	Children SetNodeMap
}

// NewSet makes a set from a list of paths.
func NewSet(paths ...Path) *Set {
	s := &Set{}
	for _, p := range paths {
		s.Insert(p)
	}
	return s
}

// Empty returns true if the set has no members and no (non-empty) children.
func (s *Set) Empty() bool {
	if len(s.Members.members) > 0 {
		return false
	}
	for _, c := range s.Children.members {
		if !c.set.Empty() {
			return false
		}
	}
	return true
}

// Insert adds the field identified by `p` to the set. Important: parent fields
// are NOT added to the set; if that is desired, they must be added separately.
func (s *Set) Insert(p Path) {
	if len(p) == 0 {
		// Zero-length path identifies the entire object; we don't
		// track top-level ownership.
		return
	}
	for {
		if len(p) == 1 {
			s.Members.Insert(p[0])
			return
		}
		s = s.Children.Descend(p[0])
		p = p[1:]
	}
}

// Has returns true if the field referenced by `p` is a member of the set.
func (s *Set) Has(p Path) bool {
	if len(p) == 0 {
		// No one owns "the entire object".
		return false
	}
	for {
		if len(p) == 1 {
			return s.Members.Has(p[0])
		}
		var ok bool
		s, ok = s.Children.Get(p[0])
		if !ok {
			return false
		}
		p = p[1:]
	}
}

// WithPrefix returns the subset of paths that begin with the given prefix,
// rooted at that prefix (i.e., the prefix itself is stripped off).
func (s *Set) WithPrefix(pe PathElement) *Set {
	subset, ok := s.Children.Get(pe)
	if !ok {
		return &Set{}
	}
	return subset
}

// Size returns the number of members of the set, including all of its
// descendants.
func (s *Set) Size() int {
	size := len(s.Members.members)
	for _, c := range s.Children.members {
		size += c.set.Size()
	}
	return size
}

// String returns a human-readable representation of the set.
func (s *Set) String() string {
	var strs []string
	s.Iterate(func(p Path) {
		strs = append(strs, p.String())
	})
	return strings.Join(strs, "\n")
}

// Equals returns true if s and s2 have exactly the same membership.
func (s *Set) Equals(s2 *Set) bool {
	var same = true
	s.Iterate(func(p Path) {
		if !same {
			return
		}
		same = s2.Has(p)
	})
	if !same {
		return false
	}
	s2.Iterate(func(p Path) {
		if !same {
			return
		}
		same = s.Has(p)
	})
	return same
}

// Iterate calls f for every member of the set, in an arbitrary but
// deterministic order, passing the full path to each member.
func (s *Set) Iterate(f func(Path)) {
	s.iteratePrefix(Path{}, f)
}

func (s *Set) iteratePrefix(prefix Path, f func(Path)) {
	for _, pe := range s.Members.members {
		f(append(append(Path{}, prefix...), pe))
	}
	for _, c := range s.Children.members {
		c.set.iteratePrefix(append(append(Path{}, prefix...), c.pathElement), f)
	}
}

// Union returns a set containing fields that appear in either s or s2.
func (s *Set) Union(s2 *Set) *Set {
	out := &Set{}
	s.Iterate(func(p Path) { out.Insert(p) })
	s2.Iterate(func(p Path) { out.Insert(p) })
	return out
}

// Intersection returns a set containing only fields that appear in both s
// and s2.
func (s *Set) Intersection(s2 *Set) *Set {
	out := &Set{}
	s.Iterate(func(p Path) {
		if s2.Has(p) {
			out.Insert(p)
		}
	})
	return out
}

// Difference returns a set containing fields that appear in s but not s2.
func (s *Set) Difference(s2 *Set) *Set {
	out := &Set{}
	s.Iterate(func(p Path) {
		if !s2.Has(p) {
			out.Insert(p)
		}
	})
	return out
}

// setNode is a pair of PathElement / Set, for the purpose of expressing
// nested set membership.
type setNode struct {
	pathElement PathElement
	set         *Set
}

// SetNodeMap is a map of PathElement to subset, kept sorted by PathElement.
type SetNodeMap struct {
	members []setNode
}

func (s *SetNodeMap) search(pe PathElement) (int, bool) {
	i := sort.Search(len(s.members), func(i int) bool {
		return s.members[i].pathElement.Compare(pe) >= 0
	})
	if i < len(s.members) && s.members[i].pathElement.Compare(pe) == 0 {
		return i, true
	}
	return i, false
}

// Descend adds pe to the set if necessary, returning the associated subset.
func (s *SetNodeMap) Descend(pe PathElement) *Set {
	i, ok := s.search(pe)
	if ok {
		return s.members[i].set
	}
	ss := &Set{}
	s.members = append(s.members, setNode{})
	copy(s.members[i+1:], s.members[i:])
	s.members[i] = setNode{pathElement: pe, set: ss}
	return ss
}

// Get returns (the associated set, true) or (nil, false) if there is none.
func (s *SetNodeMap) Get(pe PathElement) (*Set, bool) {
	i, ok := s.search(pe)
	if !ok {
		return nil, false
	}
	return s.members[i].set, true
}

// PathElementSet is a set of path elements, kept sorted.
type PathElementSet struct {
	members []PathElement
}

func (s *PathElementSet) search(pe PathElement) (int, bool) {
	i := sort.Search(len(s.members), func(i int) bool {
		return s.members[i].Compare(pe) >= 0
	})
	if i < len(s.members) && s.members[i].Compare(pe) == 0 {
		return i, true
	}
	return i, false
}

// Insert adds pe to the set, if it isn't already present.
func (s *PathElementSet) Insert(pe PathElement) {
	i, ok := s.search(pe)
	if ok {
		return
	}
	s.members = append(s.members, PathElement{})
	copy(s.members[i+1:], s.members[i:])
	s.members[i] = pe
}

// Has returns true if pe is a member of the set.
func (s *PathElementSet) Has(pe PathElement) bool {
	_, ok := s.search(pe)
	return ok
}

// Size returns the number of members of the set.
func (s *PathElementSet) Size() int {
	return len(s.members)
}
