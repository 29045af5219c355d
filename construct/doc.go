// Package construct builds target records from the field table produced by
// the transformation engine.
//
// The engine never validates targets itself: it hands a completed *Fields
// table to a Constructor and returns whatever record or error comes back.
package construct
