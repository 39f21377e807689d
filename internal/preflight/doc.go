// Package preflight provides readiness checks for the folders and files a
// render run depends on.
//
// The CLI "emotiplot config validate" command prints every Result so an
// operator can fix paths before starting a long batch. Checks never modify
// the filesystem.
package preflight
