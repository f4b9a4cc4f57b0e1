// Package validation resolves raw form definitions against the field variant
// set and returns either a validated formdef.Document or the complete list of
// issues found in the payload.
//
// Resolution is driven by the `type` tag. Closed tags (text, select, number,
// group, ...) commit to their variant and reject unknown attributes; any other
// tag resolves to the custom variant, which passes extra attributes through.
// The `number` tag is disambiguated by shape: no bounds resolves to
// number-simple, both bounds to number-range, a single bound is a constraint
// violation.
//
// Validation never stops at the first problem. Every property, nested group
// and button is checked and each issue carries a dot/bracket path such as
// `properties.address.properties.city.minLength` or `buttons[0].label`.
package validation
