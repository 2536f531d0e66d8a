// Package file implements the cache store on the local filesystem.
// Each repository key owns one directory holding the versioned index
// document and newline-normalised raw file copies for section reads.
package file
