// Package shaclgen compiles a SHACL-like schema into a typed object model.
//
// The pipeline has three stages:
//
//   - loader: reads a JSON-LD shape document (plus an optional context
//     document) and produces an ir.Schema.
//   - ir: the language-agnostic intermediate representation, with a
//     consistency check that rejects contradictory schemas.
//   - internal/gen: renders the checked schema into one deterministic Go
//     source file building on the objmodel runtime.
//
// Design policy:
//   - Keep only the public generation API in the root package; rendering
//     details live under internal/.
//   - Generated packages depend only on objmodel, which carries the object
//     graph container, property accessors, validators and the JSON-LD codec.
//
// Typical usage:
//
//	schema, err := loader.Load(loader.Input{ShapesPath: "model.jsonld"})
//	var buf bytes.Buffer
//	err = shaclgen.Generate(schema, "golang", shaclgen.Options{Package: "model"}, &buf)
package shaclgen
