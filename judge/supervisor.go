package judge

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"syscall"
	"time"
)

// pollInterval is the supervisor's re-wake cadence: small enough that a
// memory overrun is caught promptly, large enough not to spin the CPU on
// children that are going to run for their whole time budget regardless.
const pollInterval = 20 * time.Millisecond

// maxCapturedStderr bounds how much child stderr the supervisor keeps
// around for a failure verdict; a runaway child that floods stderr must
// never let that buffer itself become the resource exhaustion.
const maxCapturedStderr = 64 * 1024

// limitedWriter caps the number of bytes retained, discarding the rest
// silently once the cap is hit — stderr capture here is diagnostic, not a
// correctness input, so truncation is acceptable and need not be signalled.
type limitedWriter struct {
	mu  sync.Mutex
	max int
	buf bytes.Buffer
}

func newLimitedWriter(max int) *limitedWriter {
	return &limitedWriter{max: max}
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	remaining := w.max - w.buf.Len()
	if remaining > 0 {
		if len(p) > remaining {
			w.buf.Write(p[:remaining])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}

func (w *limitedWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// supervisedChild is the narrow surface the supervisor needs from a running
// child process; runner.go constructs one around the *exec.Cmd produced by
// spawnSandboxed.
type supervisedChild struct {
	pid    int
	stderr *limitedWriter
	kill   func() error
}

// superviseChild implements the C4 state machine: poll the child
// non-blockingly, sample memory, enforce the wall-clock budget, and resolve
// to a JudgeResult once the child reaches a terminal state. outputPath and
// expectedPath are only consulted on a clean, zero-status exit, to run the
// comparator (C3).
func superviseChild(ctx context.Context, child supervisedChild, timeLimit time.Duration, memoryLimit uint64, outputPath, expectedPath string) (JudgeResult, error) {
	start := time.Now()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var memoryUsed uint64

	for {
		var status syscall.WaitStatus
		wpid, err := syscall.Wait4(child.pid, &status, syscall.WNOHANG, nil)
		if err != nil {
			return JudgeResult{}, fmt.Errorf("judge: wait4: %w", err)
		}

		if wpid == 0 {
			// Still running: sample memory, then check both budgets.
			if sample, ok := sampleRSS(child.pid); ok && sample > memoryUsed {
				memoryUsed = sample
			}
			if memoryUsed > memoryLimit {
				if err := child.kill(); err != nil {
					return JudgeResult{}, fmt.Errorf("%w: overrunning child: %v", ErrKillFailed, err)
				}
				reapKilledChild(child.pid)
				return JudgeResult{
					Status:     MemoryLimitExceeded(),
					TimeUsed:   time.Since(start),
					MemoryUsed: memoryUsed,
				}, nil
			}
			if elapsed := time.Since(start); elapsed > timeLimit {
				if err := child.kill(); err != nil {
					return JudgeResult{}, fmt.Errorf("%w: overrunning child: %v", ErrKillFailed, err)
				}
				reapKilledChild(child.pid)
				return JudgeResult{
					Status:     TimeLimitExceeded(),
					TimeUsed:   elapsed,
					MemoryUsed: memoryUsed,
				}, nil
			}
			if ctx.Err() != nil {
				if err := child.kill(); err != nil {
					return JudgeResult{}, fmt.Errorf("%w: on cancellation: %v", ErrKillFailed, err)
				}
				reapKilledChild(child.pid)
				return JudgeResult{}, ctx.Err()
			}
			<-ticker.C
			continue
		}

		// Terminal: the child has exited or was killed by a signal.
		elapsed := time.Since(start)
		if sample, ok := sampleRSS(child.pid); ok && sample > memoryUsed {
			memoryUsed = sample
		}

		switch {
		case status.Exited() && status.ExitStatus() == 0:
			ok, err := outputsEqual(outputPath, expectedPath)
			if err != nil {
				return JudgeResult{}, err
			}
			status := Accepted()
			if !ok {
				status = WrongAnswer()
			}
			return JudgeResult{Status: status, TimeUsed: elapsed, MemoryUsed: memoryUsed}, nil

		case status.Exited():
			stderr := child.stderr.String()
			return JudgeResult{
				Status:     RuntimeError(status.ExitStatus(), stderr),
				TimeUsed:   elapsed,
				MemoryUsed: memoryUsed,
			}, nil

		case status.Signaled():
			stderr := child.stderr.String()
			sig := status.Signal()
			switch sig {
			case syscall.SIGSEGV, syscall.SIGBUS, syscall.SIGILL:
				return JudgeResult{
					Status:     SegmentFault(int(sig), stderr),
					TimeUsed:   elapsed,
					MemoryUsed: memoryUsed,
				}, nil
			default:
				return JudgeResult{
					Status:     SystemError(-1, int(sig), stderr),
					TimeUsed:   elapsed,
					MemoryUsed: memoryUsed,
				}, nil
			}

		default:
			return JudgeResult{}, fmt.Errorf("judge: unexpected wait status %v", status)
		}
	}
}

// reapKilledChild blocks briefly to collect the zombie left by a kill; the
// supervisor has already decided the verdict, so any error here is not
// reported to the caller, only swallowed.
func reapKilledChild(pid int) {
	var status syscall.WaitStatus
	_, _ = syscall.Wait4(pid, &status, 0, nil)
}
