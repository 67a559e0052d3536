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
)

// Comparison is the result of comparing two typed values, recording
// every field that was added, had its value changed, or was removed
// going from the left-hand side to the right-hand side.
type Comparison struct {
	// Added contains fields that were added.
	Added *fieldpath.Set
	// Modified contains fields that were changed.
	Modified *fieldpath.Set
	// Removed contains fields that were removed.
	Removed *fieldpath.Set
}

// IsSame returns true if the comparison is empty: no fields were
// added, modified, or removed.
func (c *Comparison) IsSame() bool {
	return c.Added.Empty() && c.Modified.Empty() && c.Removed.Empty()
}

// String returns a human-readable representation of the comparison.
func (c *Comparison) String() string {
	str := ""
	if !c.Modified.Empty() {
		str += fmt.Sprintf("- Modified Fields:\n%v\n", c.Modified)
	}
	if !c.Added.Empty() {
		str += fmt.Sprintf("- Added Fields:\n%v\n", c.Added)
	}
	if !c.Removed.Empty() {
		str += fmt.Sprintf("- Removed Fields:\n%v\n", c.Removed)
	}
	return str
}

// Remove removes set from the comparison: every path in set, and every
// descendant of a path in set, is pruned from Added, Modified and
// Removed.
func (c *Comparison) Remove(set *fieldpath.Set) *Comparison {
	if set == nil {
		return c
	}
	c.Added = pruneWithDescendants(c.Added, set)
	c.Modified = pruneWithDescendants(c.Modified, set)
	c.Removed = pruneWithDescendants(c.Removed, set)
	return c
}

// pruneWithDescendants returns the paths of s that do not have any
// prefix (including themselves) present in remove.
func pruneWithDescendants(s, remove *fieldpath.Set) *fieldpath.Set {
	out := fieldpath.NewSet()
	s.Iterate(func(p fieldpath.Path) {
		for i := 1; i <= len(p); i++ {
			if remove.Has(p[:i]) {
				return
			}
		}
		out.Insert(p)
	})
	return out
}
