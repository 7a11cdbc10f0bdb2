// Package objmodel is the runtime contract implemented by generated object
// models. It provides:
//
// - Typed property accessors (Property/ListProperty/RefProperty) that validate
//   on Set and never partially mutate
// - Ref[T], a two-variant reference that is either a bare IRI or a shared
//   object instance, with checked cross-casting via ConvertRef
// - SHACLObjectSet, an identity-keyed object graph container with two-pass
//   JSON-LD decode (materialize, then resolve), order-preserving encode and a
//   whole-graph validation pass
// - The constraint validators generated accessors are parameterized with
//
// Design policy:
// - Generated code depends only on this package; the IR and the generators
//   never leak into it.
// - Decode is structural only; constraint validation is a separate pass so
//   that invalid documents can be loaded, inspected and repaired.
// - No internal I/O: Decode/Encode operate on a caller-supplied reader/writer.
package objmodel
