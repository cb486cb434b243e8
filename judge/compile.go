package judge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// compileOutcome is the structured result of a C5 compile attempt. ok=false
// with a non-empty message is a genuine CompileError (the toolchain ran and
// rejected the program); a non-nil err is an engine-level failure (missing
// toolchain, unable to spawn) distinct from a judge verdict.
type compileOutcome struct {
	ok      bool
	message string
}

// compileArgs returns the toolchain invocation for lang, following the table
// in the compile driver section: argv[0] is the toolchain binary, the rest
// its arguments. For LangJava, srcPath is expected to be the staged Main.java.
func compileArgs(lang Language, srcPath, outPath string) (argv []string, ok bool) {
	switch lang {
	case LangC:
		return []string{"cc", "-O2", "-w", "-std=c17", srcPath, "-lm", "-o", outPath}, true
	case LangCPP:
		return []string{"c++", "-O2", "-w", "-std=c++20", srcPath, "-lm", "-o", outPath}, true
	case LangRust:
		return []string{"rustc", "--edition=2021", "-C", "opt-level=2", "-C", "embed-bitcode=no", "-o", outPath, srcPath}, true
	case LangPython:
		return []string{"python3", "-m", "py_compile", srcPath}, true
	case LangGo:
		return []string{"go", "build", "-o", outPath, srcPath}, true
	case LangJava:
		return []string{"javac", srcPath}, true
	case LangJS:
		return nil, false
	default:
		return nil, false
	}
}

// compile runs the compile stage for lang against srcPath inside workspace.
// For Java it first copies the source to Main.java (the JVM entry class the
// case runner will later invoke), per the compile driver's note that the
// source must be so named unless it already is. JavaScript has no compile
// step and always succeeds trivially.
func compile(ctx context.Context, lang Language, workspace, srcPath string) (compileOutcome, error) {
	if !lang.needsCompile() {
		return compileOutcome{ok: true}, nil
	}

	effectiveSrc := srcPath
	if lang == LangJava {
		mainPath := filepath.Join(workspace, "Main.java")
		if filepath.Clean(srcPath) != filepath.Clean(mainPath) {
			data, err := os.ReadFile(srcPath)
			if err != nil {
				return compileOutcome{}, fmt.Errorf("judge: read java source: %w", err)
			}
			if err := os.WriteFile(mainPath, data, 0o644); err != nil {
				return compileOutcome{}, fmt.Errorf("judge: stage Main.java: %w", err)
			}
		}
		effectiveSrc = mainPath
	}

	outPath := filepath.Join(workspace, artifactName)
	argv, hasArgv := compileArgs(lang, effectiveSrc, outPath)
	if !hasArgv {
		return compileOutcome{ok: true}, nil
	}

	if _, err := exec.LookPath(argv[0]); err != nil {
		return compileOutcome{}, fmt.Errorf("%w: %s", ErrToolchainNotFound, argv[0])
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = workspace
	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			return compileOutcome{ok: false, message: stderr.String()}, nil
		}
		return compileOutcome{}, fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	return compileOutcome{ok: true}, nil
}
