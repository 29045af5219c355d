// Package match provides identifier normalization and edit distance helpers
// used to match field names across naming conventions and to suggest
// alternatives when a field cannot be found.
//
// Key functions:
//   - NormalizeIdent: folds "temperature_celsius", "TemperatureCelsius" and
//     "temperatureCelsius" to the same key
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks candidate names by normalized similarity
package match
