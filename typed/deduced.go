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

import "github.com/fieldkit/structfield/schema"

const deducedName = "deduced"

// DeducedParseableType is a ParseableType that deduces a value's type
// straight from its shape, with no schema backing it: every map and
// list is treated as a single atomic leaf. It's useful for objects
// that have no declared schema, such as CustomResources before a
// structural schema is known.
var DeducedParseableType = ParseableType{
	Schema: schema.Schema{
		Types: []schema.TypeDef{
			{
				Name: deducedName,
				Atom: schema.Atom{
					Untyped: &schema.Untyped{
						ElementRelationship: schema.Separable,
					},
				},
			},
		},
	},
	TypeRef: schema.TypeRef{NamedType: strPtr(deducedName)},
}

func strPtr(s string) *string { return &s }
