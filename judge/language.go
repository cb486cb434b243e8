package judge

import "fmt"

// Language is the fixed set of source languages the judge core understands.
type Language string

const (
	LangC      Language = "c"
	LangCPP    Language = "cpp"
	LangRust   Language = "rust"
	LangPython Language = "python"
	LangJS     Language = "javascript"
	LangGo     Language = "go"
	LangJava   Language = "java"
)

// ParseLanguage maps a wire/DB string to a Language, accepting a few common aliases.
func ParseLanguage(s string) (Language, error) {
	switch s {
	case "c":
		return LangC, nil
	case "cpp", "c++", "cxx":
		return LangCPP, nil
	case "rust", "rs":
		return LangRust, nil
	case "python", "py", "python3":
		return LangPython, nil
	case "javascript", "js", "node", "nodejs":
		return LangJS, nil
	case "go", "golang":
		return LangGo, nil
	case "java":
		return LangJava, nil
	default:
		return "", fmt.Errorf("judge: unrecognized language %q", s)
	}
}

// artifactName is the fixed compiled-artifact name inside the workspace for
// languages that produce one.
const artifactName = "out"

// runOutputName is the fixed per-case actual-output file name inside the workspace.
const runOutputName = "test.out"

// needsCompile reports whether language requires a compile step before execution.
func (l Language) needsCompile() bool {
	return l != LangJS
}

// usesArtifactAsExecPath reports whether the executable to run is the
// compiled artifact itself, as opposed to an interpreter/runtime invoked
// with the source as an argument.
func (l Language) usesArtifactAsExecPath() bool {
	switch l {
	case LangPython, LangJS, LangJava:
		return false
	default:
		return true
	}
}
