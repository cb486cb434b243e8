package judge

// TestCase is a pair of paths to pre-existing files: the program's stdin and
// the expected stdout. The case runner owns a third, transient path (the
// actual-output file inside the workspace), recreated once per case.
type TestCase struct {
	InputFile          string
	ExpectedOutputFile string
}
