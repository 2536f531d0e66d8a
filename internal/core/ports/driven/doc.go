// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SectionParser: Turns one file's bytes into ordered raw sections
//   - ParserRegistry: Selects the parser for a file by extension
//   - CacheStore: Versioned on-disk persistence of index documents
//   - Connector: Fetches documentation files from a source
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CatalogStore: Registry of indexed repositories. Without it, listing
//     surfaces return empty results and bare-name resolution fails.
//   - Summariser: Supplies summaries and keywords. Without it, sections
//     carry empty summaries and no keywords.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or parser package
package driven
