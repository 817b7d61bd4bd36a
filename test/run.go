// Command run is the end-to-end harness: it drives the compiler binary
// over the fixture programs under tests/, diffing --print-ir output for
// the good ones and demanding a diagnostic plus non-zero exit for the
// bad ones. Run it from the repository root with: go run ./test
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	compilerCmd    = "go run ./cmd/lumenc"
	compileTimeout = 30 * time.Second
)

type testResult struct {
	fileName string
	passed   bool
	output   string
	isGood   bool
}

func main() {
	fmt.Println("Running good tests:")
	goodFiles, _ := filepath.Glob(filepath.Join("tests/good", "*.lum"))
	fmt.Printf("Found %d good test files...\n", len(goodFiles))

	goodPassed, goodFailed := 0, 0
	badPassed, badFailed := 0, 0
	var failedTests []testResult

	for _, file := range goodFiles {
		res := runGoodTest(file)
		if res.passed {
			fmt.Printf("  ok   %s\n", res.fileName)
			goodPassed++
		} else {
			fmt.Printf("  FAIL %s\n", res.fileName)
			goodFailed++
			failedTests = append(failedTests, res)
		}
	}

	fmt.Println("\nRunning bad tests:")
	badFiles, _ := filepath.Glob(filepath.Join("tests/bad", "*.lum"))
	fmt.Printf("Found %d bad test files...\n", len(badFiles))

	for _, file := range badFiles {
		res := runBadTest(file)
		if res.passed {
			fmt.Printf("  ok   %s (failed as expected)\n", res.fileName)
			badPassed++
		} else {
			fmt.Printf("  FAIL %s (unexpected result)\n", res.fileName)
			badFailed++
			failedTests = append(failedTests, res)
		}
	}

	if len(failedTests) > 0 {
		fmt.Println("\n--- Detailed Failures ---")
		for _, failure := range failedTests {
			kind := "bad test"
			if failure.isGood {
				kind = "good test"
			}
			fmt.Printf("\nFAIL %s (%s)\n%s\n---\n", failure.fileName, kind, failure.output)
		}
	}

	fmt.Println("\n--------------------")
	fmt.Printf("Good tests: passed %d, failed %d\n", goodPassed, goodFailed)
	fmt.Printf("Bad tests:  passed %d, failed %d\n", badPassed, badFailed)
	fmt.Println("--------------------")

	if goodFailed > 0 || badFailed > 0 {
		os.Exit(1)
	}
}

// runGoodTest compiles file with --print-ir and diffs the dump against
// tests/good/expected/<name>.ir.
func runGoodTest(file string) testResult {
	fileName := filepath.Base(file)
	nameWithoutExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	res := testResult{fileName: fileName, isGood: true}

	cmd := exec.Command("sh", "-c", fmt.Sprintf("%s %s --print-ir", compilerCmd, file))
	outputBytes, err := runCommandWithTimeout(cmd, compileTimeout)
	output := string(outputBytes)

	if err != nil {
		res.output = fmt.Sprintf("compile failed: %v\noutput:\n%s", err, output)
		return res
	}

	expectedPath := filepath.Join("tests/good/expected", nameWithoutExt+".ir")
	expectedBytes, err := os.ReadFile(expectedPath)
	if err != nil {
		res.output = fmt.Sprintf("missing expected IR: %s", expectedPath)
		return res
	}

	expected := normalize(string(expectedBytes))
	actual := normalize(output)
	if expected != actual {
		res.output = fmt.Sprintf("IR mismatch\nexpected (%s):\n%s\nactual:\n%s", expectedPath, expected, actual)
		return res
	}

	res.passed = true
	return res
}

// runBadTest compiles file and expects a non-zero exit plus an ERROR
// diagnostic on the combined output.
func runBadTest(file string) testResult {
	fileName := filepath.Base(file)
	res := testResult{fileName: fileName, isGood: false}

	cmd := exec.Command("sh", "-c", fmt.Sprintf("%s %s --print-ir", compilerCmd, file))
	outputBytes, err := runCommandWithTimeout(cmd, compileTimeout)
	output := string(outputBytes)

	switch {
	case err != nil && strings.Contains(output, "ERROR"):
		res.passed = true
	case err != nil:
		res.output = fmt.Sprintf("failed, but no ERROR diagnostic was emitted.\nexit err: %v\noutput:\n%s", err, output)
	default:
		res.output = fmt.Sprintf("expected failure but got success.\noutput:\n%s", output)
	}
	return res
}

// normalize strips CR line endings and trailing blank lines so the
// comparison is about content, not editor settings.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimRight(s, "\n") + "\n"
}

func runCommandWithTimeout(cmd *exec.Cmd, timeout time.Duration) ([]byte, error) {
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Start(); err != nil {
		return out.Bytes(), fmt.Errorf("failed to start command %q: %w", cmd.String(), err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-time.After(timeout):
		if killErr := cmd.Process.Kill(); killErr != nil {
			return out.Bytes(), fmt.Errorf("command %q timed out and failed to die: %w", cmd.String(), killErr)
		}
		return out.Bytes(), fmt.Errorf("command %q timed out after %v", cmd.String(), timeout)
	case err := <-done:
		return out.Bytes(), err
	}
}
