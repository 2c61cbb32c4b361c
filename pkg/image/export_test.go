package image

// SetMaxNestedArchiveSize lowers the nested archive cap for a test and
// returns a func restoring it.
func SetMaxNestedArchiveSize(n int64) func() {
	old := maxNestedArchiveSize
	maxNestedArchiveSize = n
	return func() { maxNestedArchiveSize = old }
}
