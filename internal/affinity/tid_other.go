//go:build !linux && !windows && !darwin && !freebsd && !netbsd

package affinity

// No thread id source; every Owner is unbound and checks are disabled.
func threadID() int64 { return 0 }
