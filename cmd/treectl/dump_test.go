package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/internal/textenc"
)

func TestDumpCommand(t *testing.T) {
	resetFlags()
	treePath := testTreePath(t)

	output, err := captureOutput(t, func() error {
		return runDump(nil, []string{treePath})
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	assert.Equal(t, []string{
		"-1 0 cfg {} {}",
		"0 1 {cfg network} {mtu 1500} hot",
		"1 2 {cfg network eth0} {addr 10.0.0.1} {}",
		"0 3 {cfg users} {} {}",
	}, lines)
}

func TestDumpCommand_SubtreeNoTags(t *testing.T) {
	resetFlags()
	dumpNoTags = true
	treePath := testTreePath(t)

	output, err := captureOutput(t, func() error {
		return runDump(nil, []string{treePath, "network"})
	})
	require.NoError(t, err)
	assert.Equal(t, "-1 1 network {mtu 1500} {}\n1 2 {network eth0} {addr 10.0.0.1} {}\n", output)
}

func TestDumpCommand_OutputEncoding(t *testing.T) {
	resetFlags()
	treePath := testTreePath(t)
	widePath := filepath.Join(t.TempDir(), "wide.tree")
	dumpOutput = widePath
	dumpEncoding = textenc.UTF16LE

	output, err := captureOutput(t, func() error {
		return runDump(nil, []string{treePath})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote ")

	raw, err := os.ReadFile(widePath)
	require.NoError(t, err)
	assert.True(t, textenc.HasBOM(raw))

	// The written file is itself a valid tree file.
	resetFlags()
	output, err = captureOutput(t, func() error {
		return runGet(nil, []string{widePath, "network", "mtu"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "1500")
}
