package judge

import (
	"reflect"
	"testing"
	"time"
)

func TestExtraArgvPython(t *testing.T) {
	got := extraArgv(LangPython, "/ws/sol.py", 0)
	want := []string{"/ws/sol.py"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("extraArgv(python) = %v, want %v", got, want)
	}
}

func TestExtraArgvJavaScriptDenyFlags(t *testing.T) {
	got := extraArgv(LangJS, "/ws/sol.js", 134217728)
	want := []string{
		"run",
		"--v8-flags=--max-old-space-size=134217728",
		"--deny-read=*",
		"--deny-write=*",
		"--deny-env=*",
		"--deny-run=*",
		"--deny-ffi=*",
		"/ws/sol.js",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("extraArgv(javascript) = %v, want %v", got, want)
	}
}

func TestExtraArgvJava(t *testing.T) {
	got := extraArgv(LangJava, "/ws/Main.java", 0)
	want := []string{"Main"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("extraArgv(java) = %v, want %v", got, want)
	}
}

func TestExtraArgvCompiledLanguagesTakeNoExtraArgs(t *testing.T) {
	for _, lang := range []Language{LangC, LangCPP, LangRust, LangGo} {
		if got := extraArgv(lang, "/ws/src", 0); got != nil {
			t.Fatalf("extraArgv(%q) = %v, want nil", lang, got)
		}
	}
}

func TestTimeLimitSecondsRoundsUp(t *testing.T) {
	if got := timeLimitSeconds(1500 * time.Millisecond); got != 2 {
		t.Fatalf("timeLimitSeconds(1.5s) = %d, want 2", got)
	}
	if got := timeLimitSeconds(time.Second); got != 1 {
		t.Fatalf("timeLimitSeconds(1s) = %d, want 1", got)
	}
	if got := timeLimitSeconds(100 * time.Millisecond); got != 1 {
		t.Fatalf("timeLimitSeconds(100ms) = %d, want 1 (floor of one second)", got)
	}
}

func TestResolveExecPathCompiledLanguage(t *testing.T) {
	got, err := resolveExecPath(LangGo, "/ws")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/ws/out" {
		t.Fatalf("resolveExecPath(go) = %q, want \"/ws/out\"", got)
	}
}
