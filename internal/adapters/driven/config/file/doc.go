// Package file implements the configuration store as a TOML file in
// the docmunch config directory.
package file
