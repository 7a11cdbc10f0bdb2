package shaclgen

import (
	"fmt"
	"io"
	"sort"

	"github.com/ontoforge/shaclgen/internal/gen"
	"github.com/ontoforge/shaclgen/ir"
)

// Options tunes code emission. See gen.Options for the fields.
type Options = gen.Options

// Target renders a checked, sorted schema for one output language.
type Target = gen.Target

var targets = map[string]Target{}

// RegisterTarget makes a target available to Generate under its name.
// Registering a second target with the same name replaces the first.
func RegisterTarget(t Target) {
	targets[t.Name()] = t
}

// Targets returns the registered target names in sorted order.
func Targets() []string {
	out := make([]string, 0, len(targets))
	for name := range targets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Generate checks the schema, sorts it into canonical order and renders it
// with the named target. The same schema and options always produce
// byte-identical output.
func Generate(schema *ir.Schema, target string, opts Options, w io.Writer) error {
	t, ok := targets[target]
	if !ok {
		return fmt.Errorf("unknown target %q (have %v)", target, Targets())
	}
	if err := schema.Check(); err != nil {
		return err
	}
	schema.Sort()
	out, err := t.Emit(schema, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func init() {
	RegisterTarget(gen.Golang())
}
