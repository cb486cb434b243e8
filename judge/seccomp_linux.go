//go:build linux

package judge

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Minimal seccomp BPF filter: default action Allow; for write(fd, ...),
// allow only fd == 1 or fd == 2, else kill the whole process. This is the
// single rule the spec requires (defence in depth alongside the fd scrub and
// mount-namespace isolation) — not a general-purpose policy engine.
const (
	secRetKillProcess = 0x80000000
	secRetAllow       = 0x7fff0000

	bpfLD  = 0x00
	bpfJMP = 0x05
	bpfRET = 0x06
	bpfW   = 0x00
	bpfABS = 0x20
	bpfJEQ = 0x10
	bpfK   = 0x00
)

// seccompData offsets, matching struct seccomp_data on Linux/x86_64:
// { int nr; __u32 arch; __u64 instruction_pointer; __u64 args[6]; }.
const (
	offNR    = 0
	offArg0  = 16 // low 32 bits of args[0]; fd values fit comfortably
	sysWrite = unix.SYS_WRITE
)

type sockFilter struct {
	Code uint16
	Jt   uint8
	Jf   uint8
	K    uint32
}

type sockFprog struct {
	Len    uint16
	_      [6]byte // padding to match kernel struct layout on amd64
	Filter *sockFilter
}

func bpfStmt(code uint16, k uint32) sockFilter {
	return sockFilter{Code: code, K: k}
}

func bpfJump(code uint16, k uint32, jt, jf uint8) sockFilter {
	return sockFilter{Code: code, Jt: jt, Jf: jf, K: k}
}

// buildWriteFilter constructs the BPF program described above.
func buildWriteFilter() []sockFilter {
	return []sockFilter{
		// if (nr != write) return ALLOW
		bpfStmt(bpfLD|bpfW|bpfABS, offNR),
		bpfJump(bpfJMP|bpfJEQ|bpfK, uint32(sysWrite), 0, 4),
		// nr == write: load fd (args[0])
		bpfStmt(bpfLD|bpfW|bpfABS, offArg0),
		bpfJump(bpfJMP|bpfJEQ|bpfK, 1, 2, 0),
		bpfJump(bpfJMP|bpfJEQ|bpfK, 2, 1, 0),
		// neither 1 nor 2: kill
		bpfStmt(bpfRET|bpfK, secRetKillProcess),
		// fd is 1 or 2, or nr != write: allow
		bpfStmt(bpfRET|bpfK, secRetAllow),
	}
}

// installWriteFilter installs the filter in the current process. Must be
// called after PR_SET_NO_NEW_PRIVS=1, in a single-threaded process (i.e.
// after the self-re-exec, never concurrently with other goroutines doing
// syscalls that matter to this filter).
func installWriteFilter() error {
	filter := buildWriteFilter()
	prog := sockFprog{
		Len:    uint16(len(filter)),
		Filter: &filter[0],
	}
	_, _, errno := unix.Syscall(unix.SYS_PRCTL,
		unix.PR_SET_SECCOMP,
		unix.SECCOMP_MODE_FILTER,
		uintptr(unsafe.Pointer(&prog)))
	if errno != 0 {
		return fmt.Errorf("judge: prctl(PR_SET_SECCOMP): %w", errno)
	}
	return nil
}
