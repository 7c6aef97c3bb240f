// Package pathutil resolves paths relative to source files and joins path
// segments. Nothing here touches the filesystem.
package pathutil

import (
	"path/filepath"
	"runtime"
)

// ThisDir returns the directory of the Go source file that calls it.
// It returns "" when the caller cannot be determined.
func ThisDir() string {
	return callerDir(2)
}

// ThisDirJoin joins elems onto the directory of the calling source file.
func ThisDirJoin(elems ...string) string {
	return AppendPath(callerDir(2), elems...)
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return filepath.Dir(file)
}

// AppendPath joins elems onto base and cleans the result.
func AppendPath(base string, elems ...string) string {
	return filepath.Join(append([]string{base}, elems...)...)
}

// FilePathHelper resolves rel against the directory holding the reference
// file ref. Absolute rel paths are returned cleaned.
func FilePathHelper(ref, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(filepath.Dir(ref), rel)
}
