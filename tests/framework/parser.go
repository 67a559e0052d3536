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

package framework

import (
	"fmt"

	"github.com/fieldkit/structfield/typed"
)

// YAMLObject is an object encoded in YAML.
type YAMLObject = typed.YAMLObject

// YAMLParser allows you to parse YAML into a TypedValue of a given
// named type.
type YAMLParser interface {
	FromYAML(object YAMLObject, typename string) (*typed.TypedValue, error)
	FromYAMLOrDie(object YAMLObject, typename string) *typed.TypedValue
}

type parser struct {
	p *typed.Parser
}

// NewParser builds a YAMLParser out of a schema document.
func NewParser(object YAMLObject) (YAMLParser, error) {
	p, err := typed.NewParser(object)
	if err != nil {
		return nil, fmt.Errorf("unable to build parser: %v", err)
	}
	return &parser{p: p}, nil
}

// NewParserOrDie either returns a YAMLParser or dies.
func NewParserOrDie(schema YAMLObject) YAMLParser {
	p, err := NewParser(schema)
	if err != nil {
		panic(fmt.Errorf("failed to create parser: %v", err))
	}
	return p
}

func (p *parser) FromYAML(object YAMLObject, typename string) (*typed.TypedValue, error) {
	return p.p.Type(typename).FromYAML(object)
}

func (p *parser) FromYAMLOrDie(object YAMLObject, typename string) *typed.TypedValue {
	o, err := p.FromYAML(object, typename)
	if err != nil {
		panic(fmt.Errorf("failed to parse YAML object: %v", err))
	}
	return o
}
