//go:build freebsd

package affinity

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func threadID() int64 {
	var id int64
	if _, _, errno := unix.RawSyscall(unix.SYS_THR_SELF, uintptr(unsafe.Pointer(&id)), 0, 0); errno != 0 {
		return 0
	}
	return id
}
