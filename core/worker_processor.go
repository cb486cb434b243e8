package core

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"judgeworker/judge"
)

// WorkerProcessor consumes submission IDs off the queue and drives them
// through the in-process judge engine (compile, sandboxed run per case,
// compare), then persists the outcome.
type WorkerProcessor struct {
	subRepo            SubmissionRepository
	problemRepo        ProblemRepository
	workspaceRoot      string
	defaultOptions     judge.JudgeOptions
	compileTimeLimitMs int
}

const defaultCompileTimeLimitMs = 5000

func NewWorkerProcessor(subRepo SubmissionRepository, problemRepo ProblemRepository, workspaceRoot string, defaultOptions judge.JudgeOptions, compileTimeLimitMs int) *WorkerProcessor {
	if compileTimeLimitMs <= 0 {
		compileTimeLimitMs = defaultCompileTimeLimitMs
	}
	return &WorkerProcessor{
		subRepo:            subRepo,
		problemRepo:        problemRepo,
		workspaceRoot:      workspaceRoot,
		defaultOptions:     defaultOptions,
		compileTimeLimitMs: compileTimeLimitMs,
	}
}

// Process takes a submission ID (as string from queue) and runs it through
// the judge engine. Returns the final verdict and a system-level error
// (non-nil when the job should be retried).
func (p *WorkerProcessor) Process(ctx context.Context, jobID string) (string, error) {
	id, err := strconv.ParseInt(jobID, 10, 64)
	if err != nil {
		return "", err
	}

	sub, err := p.subRepo.AcquirePending(ctx, id)
	if err != nil {
		return "", err
	}

	lang, err := judge.ParseLanguage(sub.Language)
	if err != nil {
		return "", err
	}

	opts := p.defaultOptions
	if limits, err := p.problemRepo.FindLimits(ctx, sub.ProblemID); err == nil {
		if limits.TimeLimitMS > 0 {
			opts.TimeLimit = time.Duration(limits.TimeLimitMS) * time.Millisecond
		}
		if limits.MemoryLimitKB > 0 {
			opts.MemoryLimit = uint64(limits.MemoryLimitKB) * 1024
		}
	}

	dbCases, err := p.problemRepo.ListTestcases(ctx, sub.ProblemID)
	if err != nil {
		return "", err
	}
	if len(dbCases) == 0 {
		return "", fmt.Errorf("no testcases defined for problem %d", sub.ProblemID)
	}

	workspace := filepath.Join(p.workspaceRoot, "sub-"+jobID)
	cases, err := materializeTestCases(workspace, dbCases)
	if err != nil {
		return "", err
	}

	budget := time.Duration(p.compileTimeLimitMs)*time.Millisecond + opts.TimeLimit*time.Duration(len(cases)) + 10*time.Second
	runCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	results, err := judge.RunTestCases(runCtx, lang, workspace, sub.SourcePath, opts, cases, true)
	if err != nil {
		return "", err
	}

	finalVerdict, finalStatus, dbResult := buildSubmissionResult(sub.ID, results)
	if saveErr := p.subRepo.SaveResult(ctx, dbResult, finalStatus); saveErr != nil {
		log.Printf("failed to save result for submission %d: %v", id, saveErr)
	}

	return finalVerdict, nil
}

// materializeTestCases writes each DB-stored testcase's inline text out to
// files inside the workspace, since the judge engine's case runner takes
// file paths (it redirects a child's real stdin/stdout to them directly).
func materializeTestCases(workspace string, dbCases []ProblemTestcase) ([]judge.TestCase, error) {
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	out := make([]judge.TestCase, 0, len(dbCases))
	for i, tc := range dbCases {
		inPath := filepath.Join(workspace, fmt.Sprintf("case_%d.in", i+1))
		outPath := filepath.Join(workspace, fmt.Sprintf("case_%d.expected", i+1))
		if err := os.WriteFile(inPath, []byte(tc.InputText), 0o644); err != nil {
			return nil, fmt.Errorf("write case %d input: %w", i+1, err)
		}
		if err := os.WriteFile(outPath, []byte(tc.OutputText), 0o644); err != nil {
			return nil, fmt.Errorf("write case %d expected output: %w", i+1, err)
		}
		out = append(out, judge.TestCase{InputFile: inPath, ExpectedOutputFile: outPath})
	}
	return out, nil
}

// verdictCode maps a JudgeStatus to this codebase's short verdict code.
func verdictCode(status judge.JudgeStatus) string {
	switch status.Kind {
	case judge.StatusAccepted:
		return "AC"
	case judge.StatusWrongAnswer:
		return "WA"
	case judge.StatusTimeLimitExceeded:
		return "TLE"
	case judge.StatusMemoryLimitExceed:
		return "MLE"
	case judge.StatusRuntimeError:
		return "RE"
	case judge.StatusCompileError:
		return "CE"
	case judge.StatusSegmentFault:
		return "RE"
	case judge.StatusSystemError:
		// SIGXCPU and other signal deaths land here; see DESIGN.md's note on
		// the open question about reclassifying SIGXCPU to TLE. Treated as
		// RE uniformly at this outer layer.
		return "RE"
	default:
		return "RE"
	}
}

// buildSubmissionResult folds a judge run's per-case results into the
// persistence layer's SubmissionResult shape: the first non-AC verdict in
// case order wins, and time/memory are the maximum observed across cases.
func buildSubmissionResult(subID int64, results []judge.JudgeResult) (verdict, status string, result SubmissionResult) {
	verdict = "AC"
	status = "succeeded"
	var timeMS, memKB *int32
	var details []SubmissionJudgeDetail

	for i, r := range results {
		code := verdictCode(r.Status)
		t := int32(r.TimeUsed.Milliseconds())
		m := int32(r.MemoryUsed / 1024)
		details = append(details, SubmissionJudgeDetail{
			Testcase: strconv.Itoa(i + 1),
			Status:   code,
			TimeMS:   &t,
			MemoryKB: &m,
		})
		if timeMS == nil || t > *timeMS {
			timeMS = &t
		}
		if memKB == nil || m > *memKB {
			memKB = &m
		}
		if code != "AC" && verdict == "AC" {
			verdict = code
			status = "failed"
		}
	}

	var errMsg *string
	if len(results) == 1 && results[0].Status.Kind == judge.StatusCompileError {
		msg := results[0].Status.Message
		errMsg = &msg
	} else if len(results) > 0 {
		last := results[len(results)-1]
		if last.Status.Stderr != "" {
			stderr := last.Status.Stderr
			errMsg = &stderr
		}
	}

	result = SubmissionResult{
		SubmissionID: subID,
		Verdict:      verdict,
		TimeMS:       timeMS,
		MemoryKB:     memKB,
		ErrorMessage: errMsg,
		Details:      details,
	}
	return verdict, status, result
}
