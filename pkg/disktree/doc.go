// Package disktree rebuilds the directory hierarchy of a disk image volume
// from the flat file list its library reports, and links every volume and
// subdirectory node to a selectable Target.
//
// The file list is read as a token stream: entries of one directory must be
// contiguous, and an entry that cannot be placed under the directory scopes
// open at that point fails the whole build with ErrContiguityViolation.
package disktree
