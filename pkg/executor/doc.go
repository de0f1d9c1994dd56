// Package executor performs resolved merge actions against the output tree.
//
// The executor is responsible for the filesystem side of a merge: creating
// destination directories, copying files, recreating symbolic links and
// handing architecture-specific binaries to the fusion tool. Input roots
// are only ever read.
package executor
