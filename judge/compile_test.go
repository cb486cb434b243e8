package judge

import (
	"reflect"
	"testing"
)

func TestCompileArgsPerLanguage(t *testing.T) {
	cases := []struct {
		lang   Language
		src    string
		wanted []string
	}{
		{LangC, "src.c", []string{"cc", "-O2", "-w", "-std=c17", "src.c", "-lm", "-o", "out"}},
		{LangCPP, "src.cpp", []string{"c++", "-O2", "-w", "-std=c++20", "src.cpp", "-lm", "-o", "out"}},
		{LangRust, "src.rs", []string{"rustc", "--edition=2021", "-C", "opt-level=2", "-C", "embed-bitcode=no", "-o", "out", "src.rs"}},
		{LangPython, "src.py", []string{"python3", "-m", "py_compile", "src.py"}},
		{LangGo, "src.go", []string{"go", "build", "-o", "out", "src.go"}},
		{LangJava, "Main.java", []string{"javac", "Main.java"}},
	}
	for _, tc := range cases {
		got, ok := compileArgs(tc.lang, tc.src, "out")
		if !ok {
			t.Fatalf("compileArgs(%q): expected ok=true", tc.lang)
		}
		if !reflect.DeepEqual(got, tc.wanted) {
			t.Fatalf("compileArgs(%q) = %v, want %v", tc.lang, got, tc.wanted)
		}
	}
}

func TestCompileArgsJavaScriptHasNoCompileStep(t *testing.T) {
	if _, ok := compileArgs(LangJS, "src.js", "out"); ok {
		t.Fatalf("expected javascript to report no compile argv")
	}
}
