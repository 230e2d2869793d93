//go:build !unix

// Package mmfile maps dump files into memory for restore.
package mmfile

import "os"

// Map reads the whole file where mmap is not used.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, noop, nil
}

func noop() error { return nil }
