// Package types defines the core types and interfaces shared by the merge
// engine: the merge Action enum, missing-file records, and the FS interface
// every component reads and writes through.
package types
