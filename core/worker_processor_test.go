package core

import (
	"os"
	"path/filepath"
	"testing"

	"judgeworker/judge"
)

func TestVerdictCodeMapping(t *testing.T) {
	cases := []struct {
		status judge.JudgeStatus
		want   string
	}{
		{judge.Accepted(), "AC"},
		{judge.WrongAnswer(), "WA"},
		{judge.TimeLimitExceeded(), "TLE"},
		{judge.MemoryLimitExceeded(), "MLE"},
		{judge.RuntimeError(1, "boom"), "RE"},
		{judge.CompileError("syntax error"), "CE"},
		{judge.SegmentFault(139, ""), "RE"},
		{judge.SystemError(0, 24, ""), "RE"},
	}
	for _, c := range cases {
		if got := verdictCode(c.status); got != c.want {
			t.Errorf("verdictCode(%v) = %q, want %q", c.status.Kind, got, c.want)
		}
	}
}

func TestBuildSubmissionResultAllAccepted(t *testing.T) {
	results := []judge.JudgeResult{
		{Status: judge.Accepted(), TimeUsed: 10_000_000, MemoryUsed: 2048},
		{Status: judge.Accepted(), TimeUsed: 20_000_000, MemoryUsed: 4096},
	}
	verdict, status, res := buildSubmissionResult(7, results)
	if verdict != "AC" || status != "succeeded" {
		t.Fatalf("got verdict=%q status=%q, want AC/succeeded", verdict, status)
	}
	if res.SubmissionID != 7 {
		t.Fatalf("SubmissionID = %d, want 7", res.SubmissionID)
	}
	if res.TimeMS == nil || *res.TimeMS != 20 {
		t.Fatalf("TimeMS = %v, want max 20", res.TimeMS)
	}
	if res.MemoryKB == nil || *res.MemoryKB != 4 {
		t.Fatalf("MemoryKB = %v, want max 4", res.MemoryKB)
	}
	if len(res.Details) != 2 {
		t.Fatalf("Details len = %d, want 2", len(res.Details))
	}
}

func TestBuildSubmissionResultStopsAtFirstFailure(t *testing.T) {
	results := []judge.JudgeResult{
		{Status: judge.Accepted()},
		{Status: judge.WrongAnswer()},
	}
	verdict, status, res := buildSubmissionResult(1, results)
	if verdict != "WA" || status != "failed" {
		t.Fatalf("got verdict=%q status=%q, want WA/failed", verdict, status)
	}
	if res.Details[0].Status != "AC" || res.Details[1].Status != "WA" {
		t.Fatalf("unexpected per-case details: %+v", res.Details)
	}
}

func TestBuildSubmissionResultCompileErrorMessage(t *testing.T) {
	results := []judge.JudgeResult{
		{Status: judge.CompileError("undefined reference to foo")},
	}
	verdict, status, res := buildSubmissionResult(3, results)
	if verdict != "CE" || status != "failed" {
		t.Fatalf("got verdict=%q status=%q, want CE/failed", verdict, status)
	}
	if res.ErrorMessage == nil || *res.ErrorMessage != "undefined reference to foo" {
		t.Fatalf("ErrorMessage = %v, want compile message", res.ErrorMessage)
	}
}

func TestBuildSubmissionResultRuntimeErrorStderr(t *testing.T) {
	results := []judge.JudgeResult{
		{Status: judge.RuntimeError(1, "index out of range")},
	}
	_, _, res := buildSubmissionResult(3, results)
	if res.ErrorMessage == nil || *res.ErrorMessage != "index out of range" {
		t.Fatalf("ErrorMessage = %v, want last case stderr", res.ErrorMessage)
	}
}

func TestMaterializeTestCasesWritesFiles(t *testing.T) {
	workspace := filepath.Join(t.TempDir(), "sub-1")
	dbCases := []ProblemTestcase{
		{InputText: "1 2\n", OutputText: "3\n", IsSample: true},
		{InputText: "5 6\n", OutputText: "11\n"},
	}

	cases, err := materializeTestCases(workspace, dbCases)
	if err != nil {
		t.Fatalf("materializeTestCases error: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(cases))
	}

	for i, tc := range cases {
		in, err := os.ReadFile(tc.InputFile)
		if err != nil {
			t.Fatalf("read input %d: %v", i, err)
		}
		if string(in) != dbCases[i].InputText {
			t.Errorf("case %d input = %q, want %q", i, in, dbCases[i].InputText)
		}
		out, err := os.ReadFile(tc.ExpectedOutputFile)
		if err != nil {
			t.Fatalf("read expected output %d: %v", i, err)
		}
		if string(out) != dbCases[i].OutputText {
			t.Errorf("case %d expected output = %q, want %q", i, out, dbCases[i].OutputText)
		}
	}
}
