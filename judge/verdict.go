package judge

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusKind discriminates the JudgeStatus tagged union. Values match the
// wire form's snake_case "type" discriminator.
type StatusKind string

const (
	StatusAccepted          StatusKind = "accepted"
	StatusWrongAnswer       StatusKind = "wrong_answer"
	StatusTimeLimitExceeded StatusKind = "time_limit_exceeded"
	StatusMemoryLimitExceed StatusKind = "memory_limit_exceeded"
	StatusRuntimeError      StatusKind = "runtime_error"
	StatusCompileError      StatusKind = "compile_error"
	StatusSystemError       StatusKind = "system_error"
	StatusSegmentFault      StatusKind = "segment_fault"
)

// JudgeStatus is a tagged variant: exactly one of the StatusKind values,
// carrying the payload fields relevant to that kind. Unused payload fields
// are left zero.
type JudgeStatus struct {
	Kind StatusKind

	// Code is set for RuntimeError, SystemError and SegmentFault. The
	// supervisor stores the exit status for RuntimeError, the terminating
	// signal number for SegmentFault, and -1 for SystemError.
	Code int
	// Signal is the terminating signal number, set for SystemError.
	Signal int
	// Stderr is captured diagnostic output, set for RuntimeError, SystemError
	// and SegmentFault.
	Stderr string
	// Message carries the toolchain's stderr, set for CompileError.
	Message string
}

func Accepted() JudgeStatus    { return JudgeStatus{Kind: StatusAccepted} }
func WrongAnswer() JudgeStatus { return JudgeStatus{Kind: StatusWrongAnswer} }
func TimeLimitExceeded() JudgeStatus {
	return JudgeStatus{Kind: StatusTimeLimitExceeded}
}
func MemoryLimitExceeded() JudgeStatus {
	return JudgeStatus{Kind: StatusMemoryLimitExceed}
}
func RuntimeError(code int, stderr string) JudgeStatus {
	return JudgeStatus{Kind: StatusRuntimeError, Code: code, Stderr: stderr}
}
func CompileError(message string) JudgeStatus {
	return JudgeStatus{Kind: StatusCompileError, Message: message}
}
func SystemError(code, signal int, stderr string) JudgeStatus {
	return JudgeStatus{Kind: StatusSystemError, Code: code, Signal: signal, Stderr: stderr}
}
func SegmentFault(code int, stderr string) JudgeStatus {
	return JudgeStatus{Kind: StatusSegmentFault, Code: code, Stderr: stderr}
}

// IsAccepted reports whether the status is the Accepted variant.
func (s JudgeStatus) IsAccepted() bool { return s.Kind == StatusAccepted }

func (s JudgeStatus) String() string {
	switch s.Kind {
	case StatusRuntimeError:
		return fmt.Sprintf("runtime_error{code=%d}", s.Code)
	case StatusSystemError:
		return fmt.Sprintf("system_error{code=%d,signal=%d}", s.Code, s.Signal)
	case StatusSegmentFault:
		return fmt.Sprintf("segment_fault{code=%d}", s.Code)
	case StatusCompileError:
		return "compile_error"
	default:
		return string(s.Kind)
	}
}

// jsonStatus is the wire shape: discriminator "type" as a sibling of the
// payload fields, snake_case tag values. Mirrors the hand-rolled
// gin.H{"error": {"code", "message"}} envelope the rest of this codebase
// uses for error responses, generalised to a closed set of variants.
type jsonStatus struct {
	Type    StatusKind `json:"type"`
	Code    *int       `json:"code,omitempty"`
	Signal  *int       `json:"signal,omitempty"`
	Stderr  *string    `json:"stderr,omitempty"`
	Message *string    `json:"message,omitempty"`
}

func (s JudgeStatus) MarshalJSON() ([]byte, error) {
	w := jsonStatus{Type: s.Kind}
	switch s.Kind {
	case StatusRuntimeError:
		w.Code = &s.Code
		w.Stderr = nonEmptyPtr(s.Stderr)
	case StatusSystemError:
		w.Code = &s.Code
		w.Signal = &s.Signal
		w.Stderr = nonEmptyPtr(s.Stderr)
	case StatusSegmentFault:
		w.Code = &s.Code
		w.Stderr = nonEmptyPtr(s.Stderr)
	case StatusCompileError:
		w.Message = &s.Message
	}
	return json.Marshal(w)
}

func (s *JudgeStatus) UnmarshalJSON(data []byte) error {
	var w jsonStatus
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = JudgeStatus{Kind: w.Type}
	if w.Code != nil {
		s.Code = *w.Code
	}
	if w.Signal != nil {
		s.Signal = *w.Signal
	}
	if w.Stderr != nil {
		s.Stderr = *w.Stderr
	}
	if w.Message != nil {
		s.Message = *w.Message
	}
	return nil
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// JudgeResult is the outcome of judging a single test case.
type JudgeResult struct {
	Status     JudgeStatus
	TimeUsed   time.Duration
	MemoryUsed uint64 // bytes, peak observed RSS
}

// jsonResult is JudgeResult's wire form, per spec: {status, timeUsed, memoryUsed}.
type jsonResult struct {
	Status     JudgeStatus `json:"status"`
	TimeUsed   int64       `json:"timeUsed"` // milliseconds
	MemoryUsed uint64      `json:"memoryUsed"`
}

func (r JudgeResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonResult{
		Status:     r.Status,
		TimeUsed:   r.TimeUsed.Milliseconds(),
		MemoryUsed: r.MemoryUsed,
	})
}

func (r *JudgeResult) UnmarshalJSON(data []byte) error {
	var w jsonResult
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Status = w.Status
	r.TimeUsed = time.Duration(w.TimeUsed) * time.Millisecond
	r.MemoryUsed = w.MemoryUsed
	return nil
}
