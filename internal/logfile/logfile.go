// Package logfile appends job status lines to plain text files.
package logfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Append writes line to the file at path, creating it if needed. A trailing
// newline is added when missing.
func Append(path, line string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
