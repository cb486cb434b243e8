package judge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// outputsEqual implements the only comparator the judge core has: whitespace
// and trailing-newline normalized line equality. There is no "checker type"
// branch — epsilon/floating-point tolerant comparison is explicitly out of
// scope.
//
// Both streams are walked in lockstep; each pair of lines has trailing
// whitespace stripped from both sides before comparison. Once one stream is
// exhausted, every remaining line on the other side must be empty after the
// same trimming. This treats trailing empty lines and \r\n/\n differences as
// insignificant, symmetrically on both sides.
func outputsEqual(actualPath, expectedPath string) (bool, error) {
	a, err := os.Open(actualPath)
	if err != nil {
		return false, fmt.Errorf("judge: open actual output: %w", err)
	}
	defer a.Close()

	e, err := os.Open(expectedPath)
	if err != nil {
		return false, fmt.Errorf("judge: open expected output: %w", err)
	}
	defer e.Close()

	return compareLineStreams(a, e)
}

func compareLineStreams(actual, expected io.Reader) (bool, error) {
	as := bufio.NewScanner(actual)
	es := bufio.NewScanner(expected)
	as.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	es.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for {
		aOK := as.Scan()
		eOK := es.Scan()
		if !aOK && !eOK {
			break
		}
		aLine, eLine := "", ""
		if aOK {
			aLine = trimTrailing(as.Text())
		}
		if eOK {
			eLine = trimTrailing(es.Text())
		}
		if !aOK || !eOK {
			// One side ran out; the remaining line on the longer side must
			// be empty after trimming for the streams to still be equal.
			if aLine != "" || eLine != "" {
				return false, nil
			}
			continue
		}
		if aLine != eLine {
			return false, nil
		}
	}
	if err := as.Err(); err != nil {
		return false, fmt.Errorf("judge: read actual output: %w", err)
	}
	if err := es.Err(); err != nil {
		return false, fmt.Errorf("judge: read expected output: %w", err)
	}
	return true, nil
}

func trimTrailing(line string) string {
	return strings.TrimRight(line, " \t\r\n")
}
