// Package accessor provides the field access capability used by the
// transformation engine to read values out of source records.
//
// Two implementations cover the usual record flavors:
//
//   - Attribute reads exported struct fields (or zero-argument getters) by name.
//   - Key reads entries of any Go map by an arbitrary comparable key.
//
// Both report an absent field with a *MissingFieldError.
package accessor
