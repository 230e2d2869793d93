package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/treekit/pkg/treefile"
)

// testTreePath writes a small tree file and returns its path:
//
//	cfg
//	  network (mtu=1500, tag hot)
//	    eth0 (addr=10.0.0.1)
//	  users
func testTreePath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.tree")
	opts := &treefile.Options{CreateNodes: true}
	steps := []func() error{
		func() error { return treefile.Create(path, "cfg", nil) },
		func() error { return treefile.SetValue(path, "network", "mtu", "1500", opts) },
		func() error { return treefile.SetValue(path, "network/eth0", "addr", "10.0.0.1", opts) },
		func() error { return treefile.CreateNode(path, "users", nil) },
		func() error { return treefile.SetTag(path, "network", "hot", false, nil) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("failed to build test tree: %v", err)
		}
	}
	return path
}

// resetFlags restores global and command flags to their defaults.
func resetFlags() {
	verbose, quiet, jsonOut, noColor = false, false, false, true
	cfg = Config{}
	dumpOutput, dumpEncoding, dumpNoTags = "", "", false
	treeDepth, treeValues, treeIDs, treeMeta = 0, false, false, false
	getRaw = false
	setCreate, setBackup, setDryRun = false, false, false
	unsetNode, unsetDryRun = false, false
	validateStrict = false
	diffFormat, diffUnchanged = "text", false
	tagsAdd, tagsRemove = "", ""
	mergeOverwrite, mergeNoTags, mergeEncoding, mergeDryRun = false, false, "", false
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so large outputs can't fill the pipe
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout
	<-done

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
