package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const passingFixture = `
classes:
  - name: Dog
queries:
  - {name: dogs are objects, kind: subtype, args: [Dog, Object], expect: "true"}
  - {kind: lub, args: [Dog, Integer], expect: "Dog | Integer"}
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gradual.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCmdCheckPasses(t *testing.T) {
	path := writeFixture(t, passingFixture)
	db := filepath.Join(t.TempDir(), "runs.db")

	var stdout, stderr bytes.Buffer
	if code := cmdCheck([]string{"--db", db, "-v", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "2/2 queries passed") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "dogs are objects") {
		t.Errorf("verbose output should list queries: %q", stdout.String())
	}

	stdout.Reset()
	if code := cmdRuns([]string{"--db", db}, &stdout, &stderr); code != 0 {
		t.Fatalf("runs exit code %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "2/2 passed") {
		t.Errorf("runs output = %q", stdout.String())
	}
}

func TestCmdCheckFailingExpectation(t *testing.T) {
	path := writeFixture(t, `
queries:
  - {kind: subtype, args: [Numeric, Integer], expect: "true"}
`)
	var stdout, stderr bytes.Buffer
	if code := cmdCheck([]string{path}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "[F001]") {
		t.Errorf("stderr should carry the F001 diagnostic: %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "0/1 queries passed") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestCmdCheckBadFixture(t *testing.T) {
	path := writeFixture(t, "queries: [{kind: nope}]\n")
	var stdout, stderr bytes.Buffer
	if code := cmdCheck([]string{path}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), `unknown kind "nope"`) {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestCmdCheckUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cmdCheck([]string{"--bogus"}, &stdout, &stderr); code != 2 {
		t.Errorf("unknown flag exit code = %d, want 2", code)
	}
	if code := cmdRuns(nil, &stdout, &stderr); code != 2 {
		t.Errorf("runs without --db exit code = %d, want 2", code)
	}
}
