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

// Command fieldctl is a command line tool for validating manifests
// against a schema. Its only subcommand is validate; it does not report
// the field sets a manifest would own.
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/fieldkit/structfield/typed"
)

type rootOptions struct {
	schemaPath string
	typeName   string
}

func (o *rootOptions) parser() (*typed.Parser, string, error) {
	if o.schemaPath == "" {
		return nil, "", fmt.Errorf("a --schema is required")
	}
	b, err := ioutil.ReadFile(o.schemaPath)
	if err != nil {
		return nil, "", fmt.Errorf("unable to read schema %q: %v", o.schemaPath, err)
	}
	parser, err := typed.NewParser(typed.YAMLObject(b))
	if err != nil {
		return nil, "", fmt.Errorf("schema %q has errors:\n%v", o.schemaPath, err)
	}

	typeName := o.typeName
	if typeName == "" {
		types := parser.Schema.Types
		if len(types) == 0 {
			return nil, "", fmt.Errorf("no types were given in the schema")
		}
		typeName = types[0].Name
	}
	return parser, typeName, nil
}

func newRootCommand() *cobra.Command {
	o := &rootOptions{}
	log := funcr.New(func(prefix, args string) {
		fmt.Fprintln(os.Stderr, prefix, args)
	}, funcr.Options{})

	root := &cobra.Command{
		Use:           "fieldctl",
		Short:         "Validate structured manifests",
		Long:          "fieldctl validates manifests against a schema.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.schemaPath, "schema", "", "path to the schema file describing the manifest's types")
	root.PersistentFlags().StringVar(&o.typeName, "type-name", "", "name of the type in the schema to use; defaults to the first declared type")

	root.AddCommand(newValidateCommand(o, log))
	return root
}

func newValidateCommand(o *rootOptions, log logrLike) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a manifest against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, typeName, err := o.parser()
			if err != nil {
				return err
			}
			b, err := ioutil.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("unable to read file %q: %v", args[0], err)
			}
			if _, err := parser.Type(typeName).FromYAML(typed.YAMLObject(b)); err != nil {
				return fmt.Errorf("unable to validate file %q:\n%v", args[0], err)
			}
			log.Info("manifest is valid", "file", args[0], "type", typeName)
			return nil
		},
	}
}

// logrLike is the subset of logr.Logger used here, so tests can supply a
// stub without pulling in the full logr.Logger value type.
type logrLike interface {
	Info(msg string, keysAndValues ...interface{})
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
