//go:build !unix

package main

import (
	"fmt"
	"os"
)

// Swapping the os.Std* handles misses runtime panic output, which still
// goes to the original stderr.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	os.Stdout = f
	os.Stderr = f
	return nil
}
