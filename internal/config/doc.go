// Package config loads, normalizes, and validates debloat configuration data.
//
// It supplies repository defaults that reproduce a bare run from the library's
// parent directory (a "Songs" root and a "DEBLOATED.txt" ledger in the working
// directory), expands user paths, reads TOML files, and exposes the converter
// settings the dispatchers turn into argument vectors.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
