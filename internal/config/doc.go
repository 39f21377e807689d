// Package config loads, normalizes, and validates emotiplot configuration data.
//
// It supplies repository defaults (including the EmotiBit channel table),
// expands user paths (including tilde shortcuts), reads TOML files, and honours
// environment fallbacks such as EMOTIPLOT_DATA_DIR. The Config type
// centralizes every knob the loaders, renderer, and CLI need so one value can
// be passed down a run without any package-level mutable state.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical channel codes, and clear validation errors.
package config
