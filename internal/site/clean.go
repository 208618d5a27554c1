package site

import (
	"os"
	"path/filepath"

	"github.com/nacara/nacara/internal/errors"
)

// Clean removes the output directory. The working directory, the
// filesystem root and the source directory are never removed.
func Clean(output, source string) error {
	cleaned := filepath.Clean(output)
	if output == "" || cleaned == "." || cleaned == string(filepath.Separator) {
		return errors.ErrInvalidPath(output)
	}
	if source != "" && cleaned == filepath.Clean(source) {
		return errors.ErrInvalidPath(output).WithContext("reason", "output is the source directory")
	}

	if err := os.RemoveAll(cleaned); err != nil {
		return errors.NewIOError(errors.ErrCodeBuildFailed, "cannot remove "+cleaned, err)
	}
	return nil
}
