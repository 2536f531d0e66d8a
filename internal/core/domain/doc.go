// Package domain defines the core business entities for Docmunch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Section: A heading-delimited span of a documentation file
//   - RawSection: Transient parser output before ID assignment
//   - IndexDocument: The persisted section catalogue for one repository
//   - SourceFile: Opaque bytes handed in by a connector
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
