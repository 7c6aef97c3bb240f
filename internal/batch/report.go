package batch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"iwutil/save"
)

const (
	successReport = ".lastrun.success.json"
	failedReport  = ".lastrun.failed.json"
)

// FailedEntry is one file that could not be converted.
type FailedEntry struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func isReport(name string) bool {
	return name == successReport || name == failedReport
}

func writeRunReport(outDir string, successList []string, failedList []FailedEntry) error {
	if err := save.CreateFolder(outDir); err != nil {
		return err
	}
	if len(successList) > 0 {
		p := filepath.Join(outDir, successReport)
		if err := save.JSONTo(successList, p); err != nil {
			return err
		}
		slog.Debug("report wrote success", "path", p, "files", len(successList))
	}
	if len(failedList) > 0 {
		p := filepath.Join(outDir, failedReport)
		if err := save.JSONTo(failedList, p); err != nil {
			return err
		}
		slog.Debug("report wrote failed", "path", p, "count", len(failedList))
	}
	return nil
}

// JoinFailedReasons summarises failures for a single log line, listing at
// most five.
func JoinFailedReasons(failedList []FailedEntry) string {
	if len(failedList) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range failedList {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Path)
		b.WriteString(": ")
		b.WriteString(f.Reason)
		if i >= 4 && len(failedList) > 6 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(failedList)-5))
			break
		}
	}
	return b.String()
}
