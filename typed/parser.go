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

	"sigs.k8s.io/yaml"

	"github.com/fieldkit/structfield/schema"
	"github.com/fieldkit/structfield/value"
)

// YAMLObject is an object encoded in YAML.
type YAMLObject string

// Parser builds ParseableTypes out of a schema, which in turn parse
// values into TypedValues.
type Parser struct {
	Schema schema.Schema
}

// create builds an unvalidated parser.
func create(s YAMLObject) (*Parser, error) {
	p := Parser{}
	err := yaml.Unmarshal([]byte(s), &p.Schema)
	return &p, err
}

func createOrDie(s YAMLObject) *Parser {
	p, err := create(s)
	if err != nil {
		panic(fmt.Errorf("failed to create parser: %v", err))
	}
	return p
}

var ssParser = createOrDie(YAMLObject(schema.SchemaSchemaYAML))

// NewParser builds a Parser from a schema. The schema itself is
// validated against the schema of schemas.
func NewParser(s YAMLObject) (*Parser, error) {
	_, err := ssParser.Type("schema").FromYAML(s)
	if err != nil {
		return nil, fmt.Errorf("unable to validate schema: %v", err)
	}
	return create(s)
}

// Type returns a ParseableType for the named type in p's schema. It is
// valid even if no type by that name exists -- parsing will simply
// fail at that point.
func (p *Parser) Type(name string) ParseableType {
	return ParseableType{
		Schema:  p.Schema,
		TypeRef: schema.TypeRef{NamedType: &name},
	}
}

// ParseableType is a type that a value can be parsed as, pairing a
// schema with the particular named (or inlined) type within it.
type ParseableType struct {
	Schema  schema.Schema
	TypeRef schema.TypeRef
}

// Type returns pt itself, ignoring name. It lets a single
// ParseableType stand in anywhere a name-to-type resolver is wanted.
func (pt ParseableType) Type(name string) ParseableType {
	return pt
}

// FromYAML parses object as YAML and returns a TypedValue of type pt,
// validated against pt's schema.
func (pt ParseableType) FromYAML(object YAMLObject) (*TypedValue, error) {
	v, err := value.FromYAML([]byte(object))
	if err != nil {
		return nil, err
	}
	return pt.FromValue(v)
}

// FromUnstructured builds a TypedValue of type pt out of in, which
// should be the result of decoding JSON or YAML into interface{}
// (maps, slices, and scalars), validated against pt's schema.
func (pt ParseableType) FromUnstructured(in interface{}) (*TypedValue, error) {
	return pt.FromValue(value.NewValueInterface(in))
}

// FromValue builds a TypedValue of type pt out of v, validated against
// pt's schema.
func (pt ParseableType) FromValue(v value.Value) (*TypedValue, error) {
	tv := &TypedValue{
		value:   v,
		typeRef: pt.TypeRef,
		schema:  &pt.Schema,
	}
	if err := tv.Validate(); err != nil {
		return nil, err
	}
	return tv, nil
}
