// Package diagnostic collects structured problems found while compiling a
// transformation specification, so that every malformed entry is reported at
// once instead of failing on the first one.
package diagnostic
