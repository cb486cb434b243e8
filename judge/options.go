package judge

import "time"

// JudgeOptions configures a single case-runner invocation. Zero value is not
// meaningful; use DefaultOptions() and override fields as needed.
type JudgeOptions struct {
	// TimeLimit is both the wall-clock budget the supervisor enforces and the
	// RLIMIT_CPU backstop installed in the sandbox preamble.
	TimeLimit time.Duration
	// MemoryLimit is both the RLIMIT_AS cap and the RSS threshold the
	// supervisor kills on, in bytes.
	MemoryLimit uint64
	// FailFast stops iteration at the first non-Accepted verdict.
	FailFast bool
	// NoStartupLimits suppresses RLIMIT_AS and the seccomp filter, for
	// runtimes (JIT engines) whose own startup legitimately trips either.
	NoStartupLimits bool
	// UnsafeMode suppresses the mount-namespace unshare and is intended only
	// for environments lacking the capability to unshare namespaces.
	UnsafeMode bool
}

const (
	DefaultTimeLimit   = time.Second
	DefaultMemoryLimit = 128 * 1024 * 1024 // 128 MiB
)

// DefaultOptions returns the spec's documented defaults.
func DefaultOptions() JudgeOptions {
	return JudgeOptions{
		TimeLimit:       DefaultTimeLimit,
		MemoryLimit:     DefaultMemoryLimit,
		FailFast:        true,
		NoStartupLimits: false,
		UnsafeMode:      false,
	}
}
