// Package formdef defines the form definition model shared by the validator,
// the default extractor and the conditional evaluator. A definition is a
// document with an ordered map of field definitions, each one a member of a
// closed set of typed variants, the open `custom` escape hatch, or the
// recursive `group` container.
//
// Values of this package are produced by pkg/validation and are treated as
// immutable afterwards. Properties and Attributes keep insertion order, and
// every type re-encodes to its wire form (JSON or YAML) so a validated document
// can be fed back through the validator and yield the same value.
//
// Host callbacks (validator, valueCallback, filterFunction, onClick, mapper)
// are kept as Callback descriptors. Nothing in this module invokes them.
package formdef
