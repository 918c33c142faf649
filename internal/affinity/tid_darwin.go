//go:build darwin

package affinity

import "golang.org/x/sys/unix"

// threadID returns thread_selfid, the kernel's 64-bit id of the calling thread.
func threadID() int64 {
	id, _, _ := unix.RawSyscall(unix.SYS_THREAD_SELFID, 0, 0, 0)
	return int64(id)
}
