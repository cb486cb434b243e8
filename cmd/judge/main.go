// Command judge runs a single source file against a directory of test
// cases through the judge engine, outside of the queue-backed worker pool.
// It exists so the engine has a runnable entry point independent of Redis
// and Postgres, useful for smoke-testing a toolchain or a sandbox profile
// by hand.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"judgeworker/judge"
)

func main() {
	if judge.IsSandboxReexec(os.Args) {
		judge.SandboxReexecMain()
		return
	}

	var (
		langFlag         = flag.String("lang", "", "source language (c, cpp, rust, python, javascript, go, java)")
		sourcePath       = flag.String("source", "", "path to the submission's source file")
		workspace        = flag.String("workspace", "", "scratch directory for compiling and running (default: a temp dir)")
		testsDir         = flag.String("tests", "", "directory containing NN.in/NN.out test case pairs")
		timeLimitMs      = flag.Int("time-limit-ms", int(judge.DefaultTimeLimit/time.Millisecond), "per-case wall clock and CPU limit in milliseconds")
		memoryLimitBytes = flag.Int64("memory-limit-bytes", judge.DefaultMemoryLimit, "RLIMIT_AS and RSS kill threshold in bytes")
		failFast         = flag.Bool("fail-fast", true, "stop at the first non-accepted case")
		unsafeMode       = flag.Bool("unsafe-mode", false, "skip the mount namespace unshare (environments without CLONE_NEWNS capability)")
		noStartupLimits  = flag.Bool("no-startup-limits", false, "skip RLIMIT_AS and the seccomp filter (JIT runtimes)")
		keepWorkspace    = flag.Bool("keep-workspace", false, "do not remove the workspace directory after the run")
	)
	flag.Parse()

	if *langFlag == "" || *sourcePath == "" || *testsDir == "" {
		fmt.Fprintln(os.Stderr, "usage: judge -lang <lang> -source <path> -tests <dir> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	lang, err := judge.ParseLanguage(*langFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cases, err := discoverTestCases(*testsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "discover test cases:", err)
		os.Exit(1)
	}
	if len(cases) == 0 {
		fmt.Fprintln(os.Stderr, "no NN.in/NN.out pairs found in", *testsDir)
		os.Exit(1)
	}

	ws := *workspace
	if ws == "" {
		dir, err := os.MkdirTemp("", "judge-ws-")
		if err != nil {
			fmt.Fprintln(os.Stderr, "create workspace:", err)
			os.Exit(1)
		}
		ws = dir
	}

	opts := judge.JudgeOptions{
		TimeLimit:       time.Duration(*timeLimitMs) * time.Millisecond,
		MemoryLimit:     uint64(*memoryLimitBytes),
		FailFast:        *failFast,
		NoStartupLimits: *noStartupLimits,
		UnsafeMode:      *unsafeMode,
	}
	if limits, err := loadProblemLimits(*testsDir); err != nil {
		fmt.Fprintln(os.Stderr, "load problem.yaml:", err)
		os.Exit(1)
	} else if limits != nil {
		if limits.TimeMS > 0 {
			opts.TimeLimit = time.Duration(limits.TimeMS) * time.Millisecond
		}
		if limits.MemoryMB > 0 {
			opts.MemoryLimit = uint64(limits.MemoryMB) * 1024 * 1024
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := judge.RunTestCases(ctx, lang, ws, *sourcePath, opts, cases, !*keepWorkspace)
	if err != nil {
		fmt.Fprintln(os.Stderr, "run test cases:", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	allAccepted := true
	for i, r := range results {
		if !r.Status.IsAccepted() {
			allAccepted = false
		}
		fmt.Fprintf(os.Stderr, "case %d: %s\n", i+1, r.Status.String())
		if err := enc.Encode(r); err != nil {
			fmt.Fprintln(os.Stderr, "encode result:", err)
			os.Exit(1)
		}
	}
	if !allAccepted {
		os.Exit(1)
	}
}

// problemManifest mirrors the `limits:` block of the web service's
// problem.yaml format, so a problem package exported for that service can
// be judged ad hoc with this CLI without rewriting its limits by hand.
type problemManifest struct {
	Limits struct {
		TimeMS   int `yaml:"time_ms"`
		MemoryMB int `yaml:"memory_mb"`
	} `yaml:"limits"`
}

// loadProblemLimits reads tests/problem.yaml if present and returns its
// limits block. Returns (nil, nil) when the file does not exist.
func loadProblemLimits(testsDir string) (*struct{ TimeMS, MemoryMB int }, error) {
	data, err := os.ReadFile(filepath.Join(testsDir, "problem.yaml"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc problemManifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &struct{ TimeMS, MemoryMB int }{doc.Limits.TimeMS, doc.Limits.MemoryMB}, nil
}

// discoverTestCases scans dir for NN.in/NN.out pairs and returns them
// ordered by the numeric prefix.
func discoverTestCases(dir string) ([]judge.TestCase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type numbered struct {
		n      int
		prefix string
	}
	var found []numbered
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".in") {
			continue
		}
		prefix := strings.TrimSuffix(name, ".in")
		n, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, prefix+".out")); err != nil {
			continue
		}
		found = append(found, numbered{n: n, prefix: prefix})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	cases := make([]judge.TestCase, 0, len(found))
	for _, f := range found {
		cases = append(cases, judge.TestCase{
			InputFile:          filepath.Join(dir, f.prefix+".in"),
			ExpectedOutputFile: filepath.Join(dir, f.prefix+".out"),
		})
	}
	return cases, nil
}
