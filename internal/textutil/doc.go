// Package textutil provides text helpers shared by the loaders, renderer, and
// CLI.
//
// The primary use cases are:
//   - Normalizing spreadsheet headers into comparable keys
//   - Suggesting the closest header when a configured column is missing
//   - Sanitizing channel ids into safe output file names
//   - Title-casing channel descriptions for plot headings
//
// Suggestions use character-bigram vectors compared by cosine similarity, so
// short headers such as "time" still produce useful matches.
package textutil
