// Package batch converts every table file under a directory to one format.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"iwutil/internal/codec"
	"iwutil/internal/fsx"
	"iwutil/read"
	"iwutil/save"
)

// Converter writes each readable table under a source dir to Out, keeping
// the relative path and swapping the extension for Codec's.
type Converter struct {
	Out    string
	Codec  codec.Codec
	Logger *slog.Logger
}

// Result is the outcome of one Run.
type Result struct {
	Success []string
	Failed  []FailedEntry
	Skipped int
}

// Run walks src sequentially. A file that fails to convert is logged and
// recorded; the walk goes on. The run report is written to Out when at
// least one file was attempted. Cancelling ctx stops between files.
func (c *Converter) Run(ctx context.Context, src string) (*Result, error) {
	logger := c.logger()
	out, err := filepath.Abs(c.Out)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(src)
	if err != nil {
		return nil, fsx.Classify(err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", src)
	}
	res := &Result{}
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); abs == out && path != src {
				return filepath.SkipDir
			}
			return nil
		}
		if isReport(d.Name()) {
			return nil
		}
		if codec.New(filepath.Ext(path)) == nil {
			res.Skipped++
			logger.Debug("skip unsupported file", "path", path)
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(c.Out, strings.TrimSuffix(rel, filepath.Ext(rel))+"."+c.Codec.Extension())
		if err := c.convert(path, dst); err != nil {
			logger.Error("convert fail", "src", path, "reason", err)
			res.Failed = append(res.Failed, FailedEntry{Path: rel, Reason: err.Error()})
			return nil
		}
		logger.Info("convert ok", "src", path, "dst", dst)
		res.Success = append(res.Success, rel)
		return nil
	})
	if len(res.Success) > 0 || len(res.Failed) > 0 {
		if rerr := writeRunReport(c.Out, res.Success, res.Failed); rerr != nil {
			logger.Warn("could not write run report", "error", rerr)
		} else {
			logger.Info("run report saved", "success", len(res.Success), "failed", len(res.Failed))
		}
	}
	return res, err
}

func (c *Converter) convert(src, dst string) error {
	if sameFile(src, dst) {
		return errors.New("source and destination are the same file")
	}
	t, err := read.Table(src)
	if err != nil {
		return err
	}
	return save.Table(t, dst)
}

func (c *Converter) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func sameFile(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}
