package judge

import "testing"

func TestParseLanguageAliases(t *testing.T) {
	cases := map[string]Language{
		"c":       LangC,
		"cpp":     LangCPP,
		"c++":     LangCPP,
		"cxx":     LangCPP,
		"rust":    LangRust,
		"rs":      LangRust,
		"python":  LangPython,
		"py":      LangPython,
		"python3": LangPython,
		"js":      LangJS,
		"node":    LangJS,
		"nodejs":  LangJS,
		"go":      LangGo,
		"golang":  LangGo,
		"java":    LangJava,
	}
	for input, want := range cases {
		got, err := ParseLanguage(input)
		if err != nil {
			t.Fatalf("ParseLanguage(%q): unexpected error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseLanguage(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseLanguageRejectsUnknown(t *testing.T) {
	if _, err := ParseLanguage("cobol"); err == nil {
		t.Fatalf("expected error for unrecognized language")
	}
}

func TestNeedsCompile(t *testing.T) {
	if LangJS.needsCompile() {
		t.Fatalf("javascript should not require a compile step")
	}
	for _, lang := range []Language{LangC, LangCPP, LangRust, LangPython, LangGo, LangJava} {
		if !lang.needsCompile() {
			t.Fatalf("%q should require a compile step", lang)
		}
	}
}

func TestUsesArtifactAsExecPath(t *testing.T) {
	artifactLangs := []Language{LangC, LangCPP, LangRust, LangGo}
	for _, lang := range artifactLangs {
		if !lang.usesArtifactAsExecPath() {
			t.Fatalf("%q should run its compiled artifact directly", lang)
		}
	}
	interpretedLangs := []Language{LangPython, LangJS, LangJava}
	for _, lang := range interpretedLangs {
		if lang.usesArtifactAsExecPath() {
			t.Fatalf("%q should not run its compiled artifact as the executable", lang)
		}
	}
}
