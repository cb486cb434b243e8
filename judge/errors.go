package judge

import "errors"

// Engine errors: exceptional infrastructure failures, distinct from a
// JudgeStatus verdict. The case runner and supervisor return these directly
// (usually wrapped with fmt.Errorf) rather than synthesising a verdict.
var (
	// ErrNoTestCases names the empty-case-list condition. RunTestCases does
	// not return it: an empty case list yields an empty result slice.
	ErrNoTestCases = errors.New("judge: no test cases supplied")

	// ErrToolchainNotFound is returned when a language's compiler/interpreter
	// cannot be located on PATH (Rust included: "rustc" is looked up on PATH).
	ErrToolchainNotFound = errors.New("judge: toolchain not found")

	// ErrSpawnFailed wraps a failure to start the sandboxed child process.
	ErrSpawnFailed = errors.New("judge: failed to spawn sandboxed child")

	// ErrKillFailed wraps a failure to kill an overrunning or cancelled child.
	ErrKillFailed = errors.New("judge: failed to kill child process")
)
