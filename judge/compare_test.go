package judge

import (
	"os"
	"strings"
	"testing"
)

func TestCompareLineStreamsEqual(t *testing.T) {
	ok, err := compareLineStreams(strings.NewReader("6\n"), strings.NewReader("6\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected equal streams to compare equal")
	}
}

func TestCompareLineStreamsTrailingWhitespaceIgnored(t *testing.T) {
	ok, err := compareLineStreams(strings.NewReader("6 \r\n"), strings.NewReader("6\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("trailing whitespace should not affect equality")
	}
}

func TestCompareLineStreamsTrailingBlankLinesIgnoredBothSides(t *testing.T) {
	ok, err := compareLineStreams(strings.NewReader("6\n\n\n"), strings.NewReader("6\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("extra trailing blank lines on the actual side should be insignificant")
	}

	ok, err = compareLineStreams(strings.NewReader("6\n"), strings.NewReader("6\n\n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("extra trailing blank lines on the expected side should be insignificant too")
	}
}

func TestCompareLineStreamsMismatch(t *testing.T) {
	ok, err := compareLineStreams(strings.NewReader("7\n"), strings.NewReader("6\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatched streams to compare unequal")
	}
}

func TestCompareLineStreamsSwappedInputsDiffer(t *testing.T) {
	// Invariant 5: swapping input and expected output of an accepted case
	// should typically produce a mismatch.
	ok, err := compareLineStreams(strings.NewReader("10 -4\n"), strings.NewReader("6\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected swapped input/expected to mismatch")
	}
}

func TestOutputsEqualReadsFiles(t *testing.T) {
	dir := t.TempDir()
	actual := writeTempFile(t, dir, "actual.txt", "6\n")
	expected := writeTempFile(t, dir, "expected.txt", "6\n")

	ok, err := outputsEqual(actual, expected)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected files with identical contents to compare equal")
	}
}

func writeTempFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := dir + "/" + name
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
