// Package services implements the driving port interfaces.
// Services contain the core business logic: slug and identifier
// generation, hash diffing, index orchestration, and the read-side
// catalogue, search, TOC, and section services.
//
// Services depend only on domain types and driven ports.
package services
