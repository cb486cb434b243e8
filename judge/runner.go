package judge

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

// resolveExecPath picks the program the case runner will invoke per
// language, per the case runner's executable-selection rule: compiled
// languages run the freshly built artifact, interpreted/VM languages run
// the system toolchain against the source (or class) directly.
func resolveExecPath(lang Language, workspace string) (string, error) {
	if lang.usesArtifactAsExecPath() {
		return filepath.Join(workspace, artifactName), nil
	}
	switch lang {
	case LangPython:
		return exec.LookPath("python3")
	case LangJS:
		return exec.LookPath("deno")
	case LangJava:
		return exec.LookPath("java")
	default:
		return "", fmt.Errorf("judge: no interpreter known for language %q", lang)
	}
}

// extraArgv returns the arguments that come after the executable itself,
// mirroring the per-language argument lists the case runner builds: Python
// takes the source path, the JS runtime is locked down with deny-all flags
// plus a heap ceiling derived from the memory limit, Java just names the
// class, and compiled languages take no extra arguments at all.
func extraArgv(lang Language, sourcePath string, memoryLimit uint64) []string {
	switch lang {
	case LangPython:
		return []string{sourcePath}
	case LangJS:
		return []string{
			"run",
			fmt.Sprintf("--v8-flags=--max-old-space-size=%d", memoryLimit),
			"--deny-read=*",
			"--deny-write=*",
			"--deny-env=*",
			"--deny-run=*",
			"--deny-ffi=*",
			sourcePath,
		}
	case LangJava:
		return []string{"Main"}
	default:
		return nil
	}
}

// RunTestCases implements the case runner (C6): it ensures the workspace
// exists, compiles the submission, and then runs the program once per test
// case under the sandboxed supervisor, stopping early if fail_fast is set
// and a case does not come back Accepted. clean controls whether the
// workspace is removed before returning.
func RunTestCases(ctx context.Context, lang Language, workspace, sourcePath string, opts JudgeOptions, cases []TestCase, clean bool) ([]JudgeResult, error) {
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, fmt.Errorf("judge: create workspace: %w", err)
	}

	execPath, err := resolveExecPath(lang, workspace)
	if err != nil {
		cleanupWorkspace(clean, workspace)
		return nil, fmt.Errorf("%w: %v", ErrToolchainNotFound, err)
	}

	outcome, err := compile(ctx, lang, workspace, sourcePath)
	if err != nil {
		cleanupWorkspace(clean, workspace)
		return nil, err
	}
	if !outcome.ok {
		cleanupWorkspace(clean, workspace)
		return []JudgeResult{{Status: CompileError(outcome.message)}}, nil
	}

	argv := extraArgv(lang, sourcePath, opts.MemoryLimit)
	results := make([]JudgeResult, 0, len(cases))

	for _, tc := range cases {
		result, err := runOneCase(ctx, execPath, argv, workspace, opts, tc)
		if err != nil {
			cleanupWorkspace(clean, workspace)
			return nil, err
		}
		results = append(results, result)
		if opts.FailFast && !result.Status.IsAccepted() {
			break
		}
	}

	cleanupWorkspace(clean, workspace)
	return results, nil
}

func cleanupWorkspace(clean bool, workspace string) {
	if clean {
		_ = os.RemoveAll(workspace)
	}
}

// timeLimitSeconds converts a (sub-second-capable) time limit into the
// whole-second ceiling RLIMIT_CPU expects; rounding up means the kernel
// backstop never fires strictly before the wall-clock deadline the
// supervisor itself enforces.
func timeLimitSeconds(limit time.Duration) uint64 {
	secs := math.Ceil(limit.Seconds())
	if secs < 1 {
		secs = 1
	}
	return uint64(secs)
}

func runOneCase(ctx context.Context, execPath string, argv []string, workspace string, opts JudgeOptions, tc TestCase) (JudgeResult, error) {
	in, err := os.Open(tc.InputFile)
	if err != nil {
		return JudgeResult{}, fmt.Errorf("judge: open input file: %w", err)
	}
	defer in.Close()

	outPath := filepath.Join(workspace, runOutputName)
	out, err := os.Create(outPath)
	if err != nil {
		return JudgeResult{}, fmt.Errorf("judge: create output file: %w", err)
	}
	defer out.Close()

	stderr := newLimitedWriter(maxCapturedStderr)

	cfg := sandboxConfig{
		TargetPath:      execPath,
		TargetArgv:      argv,
		Workspace:       workspace,
		MemoryLimit:     opts.MemoryLimit,
		TimeLimitSecs:   timeLimitSeconds(opts.TimeLimit),
		NoStartupLimits: opts.NoStartupLimits,
		UnsafeMode:      opts.UnsafeMode,
	}

	cmd, err := spawnSandboxed(cfg, in, out, stderr)
	if err != nil {
		return JudgeResult{}, err
	}

	child := supervisedChild{
		pid:    cmd.Process.Pid,
		stderr: stderr,
		kill: func() error {
			return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		},
	}

	return superviseChild(ctx, child, opts.TimeLimit, opts.MemoryLimit, outPath, tc.ExpectedOutputFile)
}
