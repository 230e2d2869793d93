package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/pkg/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "treectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "encoding: utf-16le\noverwrite: true\ndepth: 4\ncolor: false\nlimits: strict\n")

	c, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "utf-16le", c.Encoding)
	assert.True(t, c.Overwrite)
	assert.Equal(t, 4, c.Depth)
	require.NotNil(t, c.Color)
	assert.False(t, *c.Color)

	limits, err := c.limits()
	require.NoError(t, err)
	assert.Equal(t, types.StrictLimits(), limits)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "encoding: [unclosed\n"},
		{"bad encoding", "encoding: EBCDIC\n"},
		{"bad limits", "limits: huge\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	off := false
	cfg = Config{Encoding: "UTF-16LE", Overwrite: true, Depth: 3, Color: &off}

	assert.Equal(t, "UTF-16LE", encodingFor(nil, ""))
	assert.True(t, overwriteFor(nil, false))
	assert.Equal(t, 3, depthFor(nil, 0))

	noColor = false
	assert.False(t, useColor())
}
