package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

const tempPattern = ".treekit-tmp-*"

// FileWriter writes dump bytes to a filesystem path atomically: the data
// lands in a temp file in the same directory, is flushed, then renamed over
// Path. Readers never observe a half-written dump.
type FileWriter struct {
	Path string

	// FullSync requests the strongest flush the platform offers
	// (F_FULLFSYNC on darwin) instead of a data-only sync.
	FullSync bool

	// Mode is the permission of the final file. Zero means 0o644.
	Mode os.FileMode
}

// WriteDump writes buf to the configured path.
func (w *FileWriter) WriteDump(buf []byte) error {
	dir := filepath.Dir(w.Path)
	tmpFile, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, writeErr := tmpFile.Write(buf); writeErr != nil {
		return fmt.Errorf("write temp file: %w", writeErr)
	}
	if syncErr := syncFile(tmpFile, w.FullSync); syncErr != nil {
		return fmt.Errorf("sync temp file: %w", syncErr)
	}

	mode := w.Mode
	if mode == 0 {
		mode = 0o644
	}
	if chmodErr := tmpFile.Chmod(mode); chmodErr != nil {
		return fmt.Errorf("chmod temp file: %w", chmodErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}
	tmpFile = nil

	if renameErr := os.Rename(tmpPath, w.Path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", renameErr)
	}
	return nil
}
