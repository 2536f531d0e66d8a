// Package parsers converts documentation files into ordered raw
// sections. Each format gets its own parser; the registry selects one
// by file extension. All parsers operate on newline-normalised content
// and report byte spans relative to it.
package parsers
