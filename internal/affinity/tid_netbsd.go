//go:build netbsd

package affinity

import "golang.org/x/sys/unix"

func threadID() int64 {
	id, _, _ := unix.RawSyscall(unix.SYS__LWP_SELF, 0, 0, 0)
	return int64(id)
}
