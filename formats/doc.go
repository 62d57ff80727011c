// Package formats holds the named-format predicate registry consulted for
// schema type tags that are not plain JSON types, such as "email", "uuid",
// "ip-address" or "regex".
//
// Predicates receive the data value and the extra keys of the schema node
// (for example "pattern" for regex or "version" for uuid and ip-address).
// A tag with no registered predicate never matches.
package formats
