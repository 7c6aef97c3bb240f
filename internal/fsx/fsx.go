// Package fsx holds the filesystem plumbing behind the save and read
// packages: folder creation, scoped file handles and error kinds.
package fsx

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Error kinds. Every error returned by this module that falls into one of
// these categories wraps the matching sentinel.
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrParse             = errors.New("parse error")
	ErrPermissionDenied  = errors.New("permission denied")
)

// ErrSameFile is returned by CopyFile when src and dst are the same file.
var ErrSameFile = errors.New("source and destination are the same file")

const dirPerm = 0755

// Classify wraps an os error with ErrFileNotFound or ErrPermissionDenied.
// Other errors are returned unchanged.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrPermissionDenied):
		return err
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// ParseError wraps err with ErrParse and the offending path.
func ParseError(path string, err error) error {
	if err == nil || errors.Is(err, ErrParse) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrParse, path, err)
}

// CreateFolder makes dir and any missing parents. Existing directories are
// left alone; "" and "." are no-ops.
func CreateFolder(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return Classify(err)
	}
	return nil
}

// CreateParent makes the parent directory of filename.
func CreateParent(filename string) error {
	return CreateFolder(filepath.Dir(filename))
}

// WriteFile creates (or truncates) path after making its parent directory and
// hands a buffered writer to write. The file is closed on every path; a close
// or flush failure is reported when write itself succeeded.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	if err := CreateParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return Classify(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = Classify(cerr)
		}
	}()
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return err
	}
	return Classify(bw.Flush())
}

// ReadFile opens path and passes a section reader over the whole file to read.
// The section reader supports Read, ReadAt and Seek, which covers both the
// streaming and the random-access formats.
func ReadFile(path string, read func(r *io.SectionReader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return Classify(err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return Classify(err)
	}
	if st.IsDir() {
		return fmt.Errorf("%s: is a directory", path)
	}
	return read(io.NewSectionReader(f, 0, st.Size()))
}

// CopyFile copies the bytes of src to dst, creating dst's parent directory.
// dst is truncated if it exists and gets src's permission bits when created.
// Copying a file onto itself fails with ErrSameFile and leaves it untouched.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return Classify(err)
	}
	defer in.Close()
	st, err := in.Stat()
	if err != nil {
		return Classify(err)
	}
	if st.IsDir() {
		return fmt.Errorf("copy %s: source is a directory", src)
	}
	if dstSt, err := os.Stat(dst); err == nil && os.SameFile(st, dstSt) {
		return fmt.Errorf("copy %s to %s: %w", src, dst, ErrSameFile)
	}
	if err := CreateParent(dst); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode().Perm())
	if err != nil {
		return Classify(err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = Classify(cerr)
		}
	}()
	if _, err := io.Copy(out, in); err != nil {
		return Classify(err)
	}
	return nil
}
