// Package value defines the tree every format adapter produces and every
// schema operation consumes: null, booleans, 64-bit integers, floats,
// strings, sequences and insertion-ordered string-keyed mappings.
package value
