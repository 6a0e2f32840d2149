// Package validation checks user-supplied paths before any work starts.
package validation

import (
	"fmt"
	"os"

	"edocta/edocta-csv/internal/parsererror"
)

// IsValidPath checks that path exists and is a regular file or a directory.
// It reports whether the path is a directory.
func IsValidPath(path string) (isDir bool, err error) {
	if path == "" {
		return false, &parsererror.ValidationError{Reason: "path is empty"}
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, &parsererror.ValidationError{FilePath: path, Reason: "path does not exist"}
	}
	if err != nil {
		return false, &parsererror.ValidationError{FilePath: path, Reason: fmt.Sprintf("error checking path: %v", err)}
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return false, &parsererror.ValidationError{FilePath: path, Reason: "path is neither a file nor a directory"}
	}
	return info.IsDir(), nil
}

// RequireDirectory fails unless path is an existing directory.
func RequireDirectory(path string) error {
	isDir, err := IsValidPath(path)
	if err != nil {
		return err
	}
	if !isDir {
		return &parsererror.ValidationError{FilePath: path, Reason: "not a directory"}
	}
	return nil
}
