package judge

import (
	"encoding/json"
	"testing"
	"time"
)

func TestJudgeStatusIsAccepted(t *testing.T) {
	if !Accepted().IsAccepted() {
		t.Fatalf("Accepted() should report IsAccepted")
	}
	if WrongAnswer().IsAccepted() {
		t.Fatalf("WrongAnswer() should not report IsAccepted")
	}
}

func TestJudgeStatusMarshalRoundTrip(t *testing.T) {
	cases := []JudgeStatus{
		Accepted(),
		WrongAnswer(),
		TimeLimitExceeded(),
		MemoryLimitExceeded(),
		RuntimeError(1, "boom"),
		CompileError("undeclared identifier 'x'"),
		SystemError(0, 31, "blocked write"),
		SegmentFault(139, ""),
	}

	for _, want := range cases {
		data, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("marshal %v: %v", want, err)
		}
		var got JudgeStatus
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: want %+v, got %+v (wire: %s)", want, got, data)
		}
	}
}

func TestJudgeStatusWireDiscriminator(t *testing.T) {
	data, err := json.Marshal(RuntimeError(1, "boom"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["type"] != string(StatusRuntimeError) {
		t.Fatalf("expected type discriminator %q, got %v", StatusRuntimeError, raw["type"])
	}
	if _, ok := raw["code"]; !ok {
		t.Fatalf("expected code field sibling to type")
	}
	if _, ok := raw["signal"]; ok {
		t.Fatalf("signal field should be omitted for a verdict that has none")
	}
}

func TestJudgeResultMarshalRoundTrip(t *testing.T) {
	want := JudgeResult{
		Status:     Accepted(),
		TimeUsed:   250 * time.Millisecond,
		MemoryUsed: 4096,
	}
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got JudgeResult
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Status != want.Status || got.TimeUsed != want.TimeUsed || got.MemoryUsed != want.MemoryUsed {
		t.Fatalf("round trip mismatch: want %+v, got %+v", want, got)
	}
}
